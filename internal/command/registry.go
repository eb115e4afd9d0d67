package command

// Registry holds commands by name in registration order.
//
// Like the key registry it performs no validation; the manager's mutation
// layer checks uniqueness and usage before calling Insert or Delete.
type Registry struct {
	byName map[string]*Command
	order  []*Command
}

// NewRegistry creates a registry with the given commands.
func NewRegistry(cmds ...*Command) *Registry {
	r := &Registry{byName: make(map[string]*Command)}
	for _, c := range cmds {
		r.Insert(c)
	}
	return r
}

// Insert adds a command, replacing one with the same name.
func (r *Registry) Insert(c *Command) {
	if old, ok := r.byName[c.Name]; ok {
		for i, o := range r.order {
			if o == old {
				r.order[i] = c
				break
			}
		}
	} else {
		r.order = append(r.order, c)
	}
	r.byName[c.Name] = c
}

// Delete removes the command with the given name.
func (r *Registry) Delete(name string) {
	c, ok := r.byName[name]
	if !ok {
		return
	}
	delete(r.byName, name)
	for i, o := range r.order {
		if o == c {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Rename moves c from its current name to name. Caller ensures name is free.
func (r *Registry) Rename(c *Command, name string) {
	if r.byName[c.Name] == c {
		delete(r.byName, c.Name)
	}
	c.Name = name
	r.byName[name] = c
}

// Get returns the command with the given name, or nil.
func (r *Registry) Get(name string) *Command {
	return r.byName[name]
}

// Contains reports whether c itself is registered.
func (r *Registry) Contains(c *Command) bool {
	return c != nil && r.byName[c.Name] == c
}

// Len returns the number of commands.
func (r *Registry) Len() int {
	return len(r.order)
}

// All returns the commands in registration order.
func (r *Registry) All() []*Command {
	return append([]*Command(nil), r.order...)
}

// Rebind replaces the execute function of the named command. It reports
// whether the command exists. Used after importing pure data.
func (r *Registry) Rebind(name string, fn ExecuteFunc) bool {
	c, ok := r.byName[name]
	if !ok {
		return false
	}
	c.Execute = fn
	return true
}
