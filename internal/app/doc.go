// Package app provides the application context for proxyctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Config   *config.Config           // Loaded configuration
//	    Paths    *config.Paths            // File system paths
//	    Exec     system.CommandExecutor   // External commands
//	    FS       system.FileSystem        // File access
//	    Env      system.Environment       // Process environment
//	    Registry *layer.Registry          // Proxy layers
//	}
//
// # Creating an App
//
//	// Production usage: read the config file
//	a, err := app.Load(configPath)
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithConfig(cfg),
//	    app.WithExecutor(mockExec),
//	    app.WithEnv(mockEnv),
//	)
//
// # Available Options
//
//	WithConfig(cfg)        // Configuration
//	WithPaths(paths)       // Custom path configuration
//	WithExecutor(exec)     // Command executor
//	WithFS(fs)             // File system
//	WithEnv(env)           // Environment
//	WithHelper(path)       // Privileged helper binary
//	WithRegistry(registry) // Replace the layer set
package app
