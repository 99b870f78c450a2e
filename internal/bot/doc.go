// Package bot is the Matrix transport for the conversion service.
//
// It syncs against the homeserver, turns file uploads into pending session
// requests, turns cvt:<code> replies into confirmed selections and streams
// the converted artifact back into the room. All conversion mechanics live
// behind the workflow manager; this package only translates between Matrix
// events and the session protocol.
package bot
