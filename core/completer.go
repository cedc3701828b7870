package core

import "github.com/abiosoft/readline"

// Builtins lists the commands implemented in-process.
func Builtins() []string {
	return []string{"cd", "echo", "exit", "pwd", "type"}
}

// builtinCompleter offers builtin names as tab-completion candidates.
// External commands are not completed; they are resolved at parse time.
func builtinCompleter() readline.AutoCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range Builtins() {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}
