// intentgate asks for a reason before a distracting site opens.
package main

import "github.com/ppiankov/intentgate/internal/cli"

func main() {
	cli.Execute()
}
