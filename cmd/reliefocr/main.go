// Command reliefocr runs text detection and recognition over images.
package main

import "github.com/relieftext/reliefocr/cmd/reliefocr/cmd"

func main() {
	cmd.Execute()
}
