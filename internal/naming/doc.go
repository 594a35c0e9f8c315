// Package naming maps source PDFs to destination paths and guards the final
// write of each destination.
//
// Destinations are flattened: every source becomes <outputDir>/<stem>.docx
// regardless of where it was found. Conversions write into a unique temp
// file ([TempPath]) that is renamed into place through a [Guard], so a task
// the orchestrator has already given up on cannot overwrite anything.
package naming
