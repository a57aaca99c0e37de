// Command gesturectl controls media playback with hand gestures seen by a
// webcam.
package main

func main() {
	Execute()
}
