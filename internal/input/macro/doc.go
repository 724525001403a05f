// Package macro provides keyboard macro recording and playback.
//
// A macro is a recorded sequence of key events stored in a register,
// identified by a lowercase letter (a-z) or a digit (0-9). Recording into
// an uppercase letter appends to the lowercase register.
//
//	recorder := macro.NewRecorder()
//	recorder.StartRecording('a')
//	// ... every typed key is passed to Record ...
//	recorder.StopRecording()
//
// The Player feeds the stored events back through a callback, count times:
//
//	player := macro.NewPlayer(recorder)
//	err := player.Play('a', 3, func(e key.Event) error {
//		return process(e)
//	})
//
// All types in this package are safe for concurrent use.
package macro
