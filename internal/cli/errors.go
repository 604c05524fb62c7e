package cli

import "fmt"

type unknownScopeError struct {
	scope string
}

func (e unknownScopeError) Error() string {
	return fmt.Sprintf("unknown scope: %q (want primaryMenu or secondaryMenu)", e.scope)
}

func errUnknownScope(scope string) error {
	return unknownScopeError{scope: scope}
}

type notConfirmedError struct {
	action string
}

func (e notConfirmedError) Error() string {
	return fmt.Sprintf("%s not confirmed: pass --yes", e.action)
}

func errNotConfirmed(action string) error {
	return notConfirmedError{action: action}
}

type noHostError struct {
	command string
}

func (e noHostError) Error() string {
	return fmt.Sprintf("%s needs a host document: pass --host or set hostDocument in the config", e.command)
}

func errNoHost(command string) error {
	return noHostError{command: command}
}
