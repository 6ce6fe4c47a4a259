// Package errors provides typed errors with exit codes for proxyctl.
//
// # Error Types
//
// ProxyError is the base error type that wraps an error with an exit code
// and a Kind from the failure taxonomy:
//
//	type ProxyError struct {
//	    Code    int    // Exit code
//	    Kind    Kind   // Failure category
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Kinds
//
//	KindInvalidAddress      // malformed user input, command aborts
//	KindLayerUnreadable     // a status probe failed, other layers continue
//	KindLayerWriteFailed    // a layer's apply step failed, reconciliation continues
//	KindAuthorizationDenied // privileged step declined, aborts that layer only
//	KindMissingResource     // e.g. candidate list absent, aborts the batch command
//	KindUsage               // bad arguments
//	KindConfig              // unreadable or invalid configuration
//
// # Exit Codes
//
//	ExitSuccess          = 0
//	ExitGeneralError     = 1 // usage, invalid address, authorization, failed status
//	ExitMissingResource  = 2
//	ExitPartialFailure   = 3
//	ExitConfigError      = 4
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
