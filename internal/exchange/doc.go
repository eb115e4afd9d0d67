// Package exchange converts a manager's keys, commands and shortcuts to and
// from plain data.
//
// Documents carry no behavior: command execute functions are not exported
// and are re-attached on import through Bindings. Documents encode as JSON,
// TOML or YAML.
package exchange
