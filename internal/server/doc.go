// Package server exposes the sky detector as an MCP tool server.
//
// Requests arrive as newline-delimited JSON-RPC 2.0 on stdin and responses
// leave the same way on stdout, so logs must go to stderr. The server answers
// initialize, ping, tools/list and tools/call; notifications/initialized is
// accepted silently.
//
// Tools:
//   - image_dimensions reports the size of an image file.
//   - sky_detect runs the detector and returns the per-column skyline, the
//     day/night label and, on request, the mask as a base64 PNG.
//   - sky_evaluate scores a detection against a ground-truth mask.
//   - daynight_classify reports the mean brightness and the resulting label.
//
// Photographs are decoded per call and released afterwards. Ground-truth
// masks stay cached by path for the life of the process, since one mask is
// shared by every photograph of a camera.
//
// A failed tool is reported as JSON-RPC error -32000 with the Go error text
// as data.
package server
