// Package cli implements the postboard command-line client.
//
// Commands:
//
//	login  [-email e]   prompt for the password, print the session token
//	whoami -token t     print the identity bound to a token
//	ping                check that the auth service answers
//
// Global flags (-a, -t, -c) are handled by the config package and may appear
// before the command.
package cli
