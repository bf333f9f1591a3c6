package bootstrap

import (
	"context"
	"sync"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// memStore is an in-memory store.Store. Transactions snapshot the tables
// and restore them when fn fails.
type memStore struct {
	mu     sync.Mutex
	tables *memTables
	calls  map[string]int

	// failOn makes the named method return failErr
	failOn  string
	failErr error
}

type memTables struct {
	nextID    uint
	roles     []model.Role
	users     []model.User
	resources []model.Resource
	nodes     []model.RoleHierarchy
	ips       []model.AccessIP
}

var _ store.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{tables: &memTables{}, calls: map[string]int{}}
}

func (t *memTables) clone() *memTables {
	c := &memTables{nextID: t.nextID}
	c.roles = append([]model.Role(nil), t.roles...)
	for _, u := range t.users {
		u.Roles = append([]model.Role(nil), u.Roles...)
		c.users = append(c.users, u)
	}
	for _, r := range t.resources {
		r.Roles = append([]model.Role(nil), r.Roles...)
		c.resources = append(c.resources, r)
	}
	for _, n := range t.nodes {
		if n.ParentID != nil {
			id := *n.ParentID
			n.ParentID = &id
		}
		n.Parent = nil
		c.nodes = append(c.nodes, n)
	}
	c.ips = append([]model.AccessIP(nil), t.ips...)
	return c
}

func (s *memStore) enter(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
	if s.failOn == method {
		return s.failErr
	}
	return nil
}

func (s *memStore) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *memStore) id() uint {
	s.tables.nextID++
	return s.tables.nextID
}

func (s *memStore) Transaction(ctx context.Context, fn func(store.Store) error) error {
	if err := s.enter("Transaction"); err != nil {
		return err
	}
	s.mu.Lock()
	snapshot := s.tables.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.tables = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	if err := s.enter("FindRoleByName"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.tables.roles {
		if r.RoleName == name {
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memStore) SaveRole(ctx context.Context, role *model.Role) error {
	if err := s.enter("SaveRole"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.tables.roles {
		if r.ID == role.ID && role.ID != 0 {
			s.tables.roles[i] = *role
			return nil
		}
		if r.RoleName == role.RoleName {
			return store.ErrConstraintViolation
		}
	}
	role.ID = s.id()
	s.tables.roles = append(s.tables.roles, *role)
	return nil
}

func (s *memStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := s.enter("FindUserByUsername"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.tables.users {
		if u.Username == username {
			u.Roles = append([]model.Role(nil), u.Roles...)
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memStore) SaveUser(ctx context.Context, user *model.User) error {
	if err := s.enter("SaveUser"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *user
	saved.Roles = append([]model.Role(nil), user.Roles...)
	for i, u := range s.tables.users {
		if u.ID == user.ID && user.ID != 0 {
			s.tables.users[i] = saved
			return nil
		}
		if u.Username == user.Username {
			return store.ErrConstraintViolation
		}
	}
	user.ID = s.id()
	saved.ID = user.ID
	s.tables.users = append(s.tables.users, saved)
	return nil
}

func (s *memStore) FindResourceByNameAndMethod(ctx context.Context, name, httpMethod string) (*model.Resource, error) {
	if err := s.enter("FindResourceByNameAndMethod"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.tables.resources {
		if r.ResourceName == name && r.HTTPMethod == httpMethod {
			r.Roles = append([]model.Role(nil), r.Roles...)
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memStore) SaveResource(ctx context.Context, resource *model.Resource) error {
	if err := s.enter("SaveResource"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *resource
	saved.Roles = append([]model.Role(nil), resource.Roles...)
	for i, r := range s.tables.resources {
		if r.ID == resource.ID && resource.ID != 0 {
			s.tables.resources[i] = saved
			return nil
		}
		if r.ResourceName == resource.ResourceName && r.HTTPMethod == resource.HTTPMethod {
			return store.ErrConstraintViolation
		}
	}
	resource.ID = s.id()
	saved.ID = resource.ID
	s.tables.resources = append(s.tables.resources, saved)
	return nil
}

func (s *memStore) FindHierarchyByChildName(ctx context.Context, childName string) (*model.RoleHierarchy, error) {
	if err := s.enter("FindHierarchyByChildName"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.tables.nodes {
		if n.ChildName == childName {
			return &n, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memStore) SaveHierarchy(ctx context.Context, node *model.RoleHierarchy) error {
	if err := s.enter("SaveHierarchy"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *node
	saved.Parent = nil
	if node.ParentID != nil {
		id := *node.ParentID
		saved.ParentID = &id
	}
	for i, n := range s.tables.nodes {
		if n.ID == node.ID && node.ID != 0 {
			s.tables.nodes[i] = saved
			return nil
		}
		if n.ChildName == node.ChildName {
			return store.ErrConstraintViolation
		}
	}
	node.ID = s.id()
	saved.ID = node.ID
	s.tables.nodes = append(s.tables.nodes, saved)
	return nil
}

func (s *memStore) ListHierarchy(ctx context.Context) ([]model.RoleHierarchy, error) {
	if err := s.enter("ListHierarchy"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables.clone().nodes, nil
}

func (s *memStore) FindAccessIPByAddress(ctx context.Context, addr string) (*model.AccessIP, error) {
	if err := s.enter("FindAccessIPByAddress"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ip := range s.tables.ips {
		if ip.IPAddress == addr {
			return &ip, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memStore) SaveAccessIP(ctx context.Context, entry *model.AccessIP) error {
	if err := s.enter("SaveAccessIP"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ip := range s.tables.ips {
		if ip.ID == entry.ID && entry.ID != 0 {
			s.tables.ips[i] = *entry
			return nil
		}
		if ip.IPAddress == entry.IPAddress {
			return store.ErrConstraintViolation
		}
	}
	entry.ID = s.id()
	s.tables.ips = append(s.tables.ips, *entry)
	return nil
}

func (s *memStore) ListAccessIPs(ctx context.Context) ([]model.AccessIP, error) {
	if err := s.enter("ListAccessIPs"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.AccessIP(nil), s.tables.ips...), nil
}

func (s *memStore) node(name string) *model.RoleHierarchy {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.tables.nodes {
		if n.ChildName == name {
			return &n
		}
	}
	return nil
}

func (s *memStore) resource(name string) *model.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.tables.resources {
		if r.ResourceName == name {
			return &r
		}
	}
	return nil
}

func (s *memStore) user(name string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.tables.users {
		if u.Username == name {
			return &u
		}
	}
	return nil
}
