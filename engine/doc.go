// Package engine is the bridge to the external geoprocessing engine.
//
// A Runner executes one module with an argument list; ExecRunner does so through the
// engine's command-line front end. A Session wraps a Runner with the scratch space needed to
// hand data across the process boundary:
//
//	sess, err := engine.NewSession(engine.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer sess.Close()
//
//	in, _ := sess.VirtualFileIn(table)
//	out, _ := sess.VirtualFileOut("")
//	err = sess.CallModule(ctx, "grdmask", append(in, "-G"+out, "-I1", "-R0/10/0/10"))
//	g, err := sess.VirtualFileToRaster(out, "")
//
// The engine itself is treated as an opaque service; this package only marshals files and
// arguments.
package engine
