/*
Package backdrop decorates screenshots: it frames the source image with a uniform
padding filled with a solid color or a linear gradient, rounds its corners and
casts a soft drop shadow below it. The result is a PNG ready to be shared.

The package provides a command line interface, supporting various flags for the
decoration parameters. To check the supported commands type:

	$ backdrop --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"context"
		"fmt"
		"os"

		"github.com/esimov/backdrop"
	)

	func main() {
		p := &backdrop.Processor{}

		style := backdrop.DefaultStyle()
		style.Background = "linear-gradient(90deg, #12c2e9 0%, #f64f59 100%)"

		if err := p.Process(context.Background(), os.Stdin, os.Stdout, style); err != nil {
			fmt.Printf("Error decorating image: %s", err.Error())
		}
	}
*/
package backdrop
