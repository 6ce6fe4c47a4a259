// Package privilege runs the redirect helper through pkexec.
//
// Elevation is modelled as a call with three outcomes rather than assumed
// to succeed:
//
//   - Granted: pkexec authorized and ran the helper. The helper may still
//     have failed, in which case Run also returns an error.
//   - Denied: the user dismissed or failed the authentication dialog
//     (pkexec exit 126 or 127). Run returns an AuthorizationDenied error.
//   - Unavailable: pkexec is not installed.
//
// Run blocks while the PolicyKit agent waits for credentials. There is no
// timeout; declining the prompt is the way out.
package privilege
