// Package navigation tracks where the user is on each simulated skin.
//
// Every skin runs its own small state machine:
//
//	Locked --unlock--> Home(0) --paginate--> Home(n)
//	Home(n) --open--> App(id) --close--> Home(n)
//
// Skins never share page or foreground state. Switching skins sends the
// skin being left back to its home page and re-locks the primary skin.
// Invalid moves (paginating past the last page, closing at home, acting on
// a locked screen) leave the state unchanged and are not errors.
package navigation
