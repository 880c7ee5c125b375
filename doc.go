// Package tmx decodes Tiled map documents into a typed, immutable model:
//
//   - Map/Tileset/Layer/Object model with tagged variants (no reflection)
//   - A stable error model via Issues (element path, code, message)
//   - Tile-grid payload decoding (csv, base64, base64+zlib/gzip)
//   - Global tile id resolution across tilesets, including flip flags
//   - External tileset references resolved through a pluggable FileResolver
//   - The JSON export variant via ParseJSON
//
// Design policy:
//   - Keep only public APIs in the root package; put the XML element-tree
//     collaborator under internal/.
//   - Place compression codecs under codec/ and the CLI under cmd/tmxdump.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	m, err := tmx.Load("world.tmx")
//	m, err := tmx.Parse(data)
//	ts, err := tmx.ParseTileset(data)
//
//	ref, err := m.Resolve(gid)
package tmx
