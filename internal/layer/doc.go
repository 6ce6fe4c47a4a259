// Package layer models the proxy mechanisms proxyctl keeps in sync.
//
// Each Layer owns its own transport: the process environment for
// ShellEnvironment, the KDE kioslaverc store for DesktopConfig and the
// redsocks service for TransparentRedirect. A Registry holds the layers in
// their declared order, which the reconciler relies on because downstream
// layers may source their endpoint from upstream ones.
//
// Read never mutates anything and never aborts: an unreadable layer reports
// Enabled == Unknown with a LayerUnreadable error in State.Err.
package layer
