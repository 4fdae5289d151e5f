// Command flixcase manages a portable movie and TV library and remembers
// where each title was left off.
package main

func main() {
	Execute()
}
