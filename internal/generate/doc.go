// Package generate runs the full pipeline for every configured fileset:
// load schema documents, scan for unsupported kinds, ask for confirmation,
// resolve and derive each schema, render the outputs, and write the files.
//
// Nothing is written until every fileset has been built and rendered, so a
// failure or a declined confirmation leaves the output tree untouched.
package generate
