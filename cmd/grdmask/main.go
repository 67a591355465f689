// grdmask builds mask grids from polygon or point tables with the GMT grdmask module.
//
// Usage:
//
//	# Mask a polygon table at 1 degree spacing and print a summary
//	grdmask mask --region 125/130/30/35 --spacing 1 polygons.txt
//
//	# NaN outside, running polygon IDs on edges and inside, written to a file
//	grdmask mask -R 125/130/30/35 -I 1 --outside NaN --edge id --inside id -G ids.grd polygons.txt
//
//	# Read the table from stdin and print x y z rows
//	cat polygons.txt | grdmask mask -R 0/10/0/10 -I 0.5 --xyz
//
//	# Show the -N token for a set of mask values
//	grdmask encode NaN z z
//
// Configuration is read from --config and GRIDMASK_* environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Execute(ctx)
	stop()
	os.Exit(code)
}
