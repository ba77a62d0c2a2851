// Command fogwall shows a poster list as an interactive particle gallery.
package main

func main() {
	Execute()
}
