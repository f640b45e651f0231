// Package api defines the request and response messages of the expense
// tracker's RPC services.
//
// Amounts travel as display-unit decimal strings in requests ("12.34") and as
// an Amount pair (minor units plus display string) in responses. Minor units
// are authoritative; the display string is derived from them.
package api
