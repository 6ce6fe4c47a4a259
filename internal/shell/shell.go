// Package shell renders environment changes for the calling shell.
//
// proxy runs as a child of the user's shell and cannot change its
// environment. Commands that touch the shell layer print export and unset
// statements on stdout, and the wrapper function from InitScript evals
// them.
package shell

import (
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/proxyctl/internal/layer"
)

// Supported lists the shells InitScript knows.
var Supported = []string{"bash", "zsh"}

// Render turns statements into POSIX shell source, one per line.
func Render(statements []layer.Statement) string {
	var b strings.Builder
	for _, st := range statements {
		if st.Unset {
			fmt.Fprintf(&b, "unset %s\n", st.Key)
			continue
		}
		fmt.Fprintf(&b, "export %s\n", shellquote.Join(st.Key+"="+st.Value))
	}
	return b.String()
}

// evalCommands are the subcommands whose stdout the wrapper evals.
var evalCommands = []string{"shell", "on", "off", "sync", "pick"}

const initTemplate = `# proxyctl shell integration for %[1]s.
# Add to ~/.%[1]src:  eval "$(%[2]s shell init %[1]s)"
%[3]s() {
  case "$1" in
    %[4]s)
      if [ "$2" = "init" ]; then
        command %[2]s "$@"
        return
      fi
      local __proxyctl_out
      __proxyctl_out="$(command %[2]s "$@")" || { local __rc=$?; [ -n "$__proxyctl_out" ] && eval "$__proxyctl_out"; return $__rc; }
      eval "$__proxyctl_out"
      ;;
    *)
      command %[2]s "$@"
      ;;
  esac
}
`

// InitScript returns the wrapper function for shellName. binary is the
// command the wrapper calls and name the function it defines.
func InitScript(shellName, binary, name string) (string, error) {
	if shellName == "" {
		shellName = "bash"
	}
	supported := false
	for _, s := range Supported {
		if s == shellName {
			supported = true
		}
	}
	if !supported {
		return "", fmt.Errorf("unsupported shell %q (supported: %s)", shellName, strings.Join(Supported, ", "))
	}
	return fmt.Sprintf(initTemplate, shellName, shellquote.Join(binary), name, strings.Join(evalCommands, "|")), nil
}
