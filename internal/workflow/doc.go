// Package workflow drives one conversion from confirmed selection to
// delivered artifact.
//
// The manager owns the carrying-out half of the pipeline: it allocates
// temp paths, pulls the source through a transport-provided fetch callback,
// runs the converter on the bounded worker pool, verifies the artifact,
// records the attempt in the ledger and hands the output back through a
// delivery callback. Temp files are released no matter how the attempt
// ends, including panics inside a converter.
package workflow
