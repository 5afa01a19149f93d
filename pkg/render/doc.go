// Package render turns a graph description into an SVG image.
//
// Two [Renderer] implementations are provided:
//
//   - [ExecRenderer] drives an external Graphviz-compatible binary. Every call
//     gets a fresh run directory holding the input file, the output file, a
//     generated fonts.conf pinned to the bundled fonts, and the XDG cache
//     home, so repeated or concurrent runs never share state and the output
//     does not depend on fonts installed on the host.
//   - [BuiltinRenderer] renders in-process with the WebAssembly build of
//     Graphviz, for hosts without a dot binary.
//
// Both return a build error when rendering fails or yields nothing, with the
// offending description attached, since a rendering failure almost always
// traces back to malformed graph syntax upstream.
package render
