// Package workout parses workout recordings (.fit, .gpx and free-text device
// logs) into uniform tables with canonical column names.
//
// Quick start:
//
//	w, err := workout.Parse(ctx, "BoltApp.WO-2022-02-21_12-49-33.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(w.Len(), "rows")
//	lat, lon := w.Latitude(), w.Longitude()
//
// To parse whole directory trees, create a Manager and call Run. Converting
// .fit files needs the external crFitTool; see WithToolPaths.
package workout
