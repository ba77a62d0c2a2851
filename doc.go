// Package fogwall is an interactive gallery that renders each poster image as
// a field of [Ebitengine]-drawn particles.
//
// A poster's image is downscaled to fit the canvas and sampled on a regular
// grid. Every opaque sample becomes a particle that springs toward its home
// position while drifting, breathing in depth and fleeing the cursor. A share
// of the particles, plus a set of extras, wander as ambient fog.
//
// # Quick start
//
//	g := fogwall.Open(posters, fogwall.Options{Seed: 1})
//	if err := fogwall.Run(g, fogwall.RunConfig{Title: "Gallery"}); err != nil {
//		log.Fatal(err)
//	}
//
// [Gallery] implements [ebiten.Game], so it can also be driven by an existing
// game loop.
//
// # Interaction
//
// Dragging rotates the field in 3D. Holding the pointer still grows a focus
// circle that snaps the particles inside it back onto the image, and releasing
// shrinks it again. The arrow keys and the indicator dots navigate, and
// Escape closes the gallery.
//
// # Transitions
//
// Navigation scatters the current field for three seconds, swaps in the next
// poster and lets it assemble. Requests made while a transition is in flight
// are ignored. Images are decoded and sampled in the background and the
// neighbors of the displayed poster are prefetched.
//
// # Testing
//
// The Inject methods on [InputController] and [LoadScript] replay pointer and
// key input without a window, and [Gallery.Screenshot] writes PNG captures.
//
// [Ebitengine]: https://ebitengine.org
package fogwall
