package schema

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/wippyai/xpbridge/errors"
)

// MemberKind identifies what a name resolved to.
type MemberKind uint8

const (
	MemberMethod MemberKind = iota
	MemberAttribute
	MemberConstant
)

// Member is the result of resolving a name against an interface chain.
type Member struct {
	Signature *Signature
	Attribute *Attribute
	Constant  *Constant
	Interface *Interface
	Kind      MemberKind
}

// Resolver owns registered interfaces. Registration happens once at
// startup; after Freeze the table is read without locking and may be
// shared by any number of concurrent dispatchers.
type Resolver struct {
	byName map[string]*Interface
	byIID  map[uuid.UUID]*Interface
	mu     sync.RWMutex
	frozen atomic.Bool
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		byName: make(map[string]*Interface),
		byIID:  make(map[uuid.UUID]*Interface),
	}
}

// Register adds an interface. Its parent, if any, must already be registered.
func (r *Resolver) Register(iface *Interface) error {
	if iface == nil || iface.Name == "" {
		return errors.InvalidInput(errors.PhaseRegister, "interface must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	// checked under the lock Freeze takes
	if r.frozen.Load() {
		return errors.Registration(iface.Name, "resolver is frozen", nil)
	}
	if _, dup := r.byName[iface.Name]; dup {
		return errors.Registration(iface.Name, "already registered", nil)
	}
	if iface.IID != uuid.Nil {
		if other, dup := r.byIID[iface.IID]; dup {
			return errors.Registration(iface.Name, "iid already used by "+other.Name, nil)
		}
	}
	if iface.Parent != "" {
		if _, ok := r.byName[iface.Parent]; !ok {
			return errors.Registration(iface.Name, "unknown parent "+iface.Parent, nil)
		}
	}

	r.byName[iface.Name] = iface
	if iface.IID != uuid.Nil {
		r.byIID[iface.IID] = iface
	}
	return nil
}

// Freeze ends registration.
func (r *Resolver) Freeze() {
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Resolver) Frozen() bool {
	return r.frozen.Load()
}

func (r *Resolver) read() func() {
	if r.frozen.Load() {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

// Interface returns a registered interface by name.
func (r *Resolver) Interface(name string) (*Interface, bool) {
	defer r.read()()
	i, ok := r.byName[name]
	return i, ok
}

// InterfaceByIID returns a registered interface by its identifier.
func (r *Resolver) InterfaceByIID(iid uuid.UUID) (*Interface, bool) {
	defer r.read()()
	i, ok := r.byIID[iid]
	return i, ok
}

// Implements reports whether the named interface is iid or derives from it.
func (r *Resolver) Implements(name string, iid uuid.UUID) bool {
	defer r.read()()
	for iface := r.byName[name]; iface != nil; iface = r.byName[iface.Parent] {
		if iface.IID == iid {
			return true
		}
	}
	return false
}

// Resolve looks name up on the given interfaces in order, walking each
// one's parent chain. Passing several interfaces gives the flattened view
// of an object that implements all of them.
func (r *Resolver) Resolve(name string, ifaces ...string) (Member, error) {
	defer r.read()()

	for _, ifName := range ifaces {
		iface, ok := r.byName[ifName]
		if !ok {
			return Member{}, errors.NotRegistered(ifName)
		}
		for ; iface != nil; iface = r.byName[iface.Parent] {
			if s, ok := iface.methods[name]; ok {
				return Member{Kind: MemberMethod, Signature: s, Interface: iface}, nil
			}
			if a, ok := iface.attributes[name]; ok {
				return Member{Kind: MemberAttribute, Attribute: a, Interface: iface}, nil
			}
			if c, ok := iface.constants[name]; ok {
				return Member{Kind: MemberConstant, Constant: c, Interface: iface}, nil
			}
		}
	}

	owner := ""
	if len(ifaces) == 1 {
		owner = ifaces[0]
	}
	return Member{}, errors.UnknownMethod(owner, name)
}

// Method resolves name and requires it to be a method.
func (r *Resolver) Method(name string, ifaces ...string) (*Signature, error) {
	m, err := r.Resolve(name, ifaces...)
	if err != nil {
		return nil, err
	}
	if m.Kind != MemberMethod {
		return nil, errors.UnknownMethod(m.Interface.Name, name)
	}
	return m.Signature, nil
}
