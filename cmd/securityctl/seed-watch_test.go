package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/audit"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/config"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// tableStore keeps rows in slices and runs transactions in place
type tableStore struct {
	nextID    uint
	roles     []*model.Role
	users     []*model.User
	resources []*model.Resource
	nodes     []*model.RoleHierarchy
	ips       []*model.AccessIP
}

var _ store.Store = (*tableStore)(nil)

func (s *tableStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *tableStore) Transaction(ctx context.Context, fn func(store.Store) error) error {
	return fn(s)
}

func (s *tableStore) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	for _, r := range s.roles {
		if r.RoleName == name {
			return r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *tableStore) SaveRole(ctx context.Context, role *model.Role) error {
	if role.ID == 0 {
		role.ID = s.id()
		s.roles = append(s.roles, role)
	}
	return nil
}

func (s *tableStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *tableStore) SaveUser(ctx context.Context, user *model.User) error {
	if user.ID == 0 {
		user.ID = s.id()
		s.users = append(s.users, user)
	}
	return nil
}

func (s *tableStore) FindResourceByNameAndMethod(ctx context.Context, name, httpMethod string) (*model.Resource, error) {
	for _, r := range s.resources {
		if r.ResourceName == name && r.HTTPMethod == httpMethod {
			return r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *tableStore) SaveResource(ctx context.Context, resource *model.Resource) error {
	if resource.ID == 0 {
		resource.ID = s.id()
		s.resources = append(s.resources, resource)
	}
	return nil
}

func (s *tableStore) FindHierarchyByChildName(ctx context.Context, childName string) (*model.RoleHierarchy, error) {
	for _, n := range s.nodes {
		if n.ChildName == childName {
			return n, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *tableStore) SaveHierarchy(ctx context.Context, node *model.RoleHierarchy) error {
	if node.ID == 0 {
		node.ID = s.id()
		s.nodes = append(s.nodes, node)
	}
	return nil
}

func (s *tableStore) ListHierarchy(ctx context.Context) ([]model.RoleHierarchy, error) {
	var out []model.RoleHierarchy
	for _, n := range s.nodes {
		out = append(out, *n)
	}
	return out, nil
}

func (s *tableStore) FindAccessIPByAddress(ctx context.Context, addr string) (*model.AccessIP, error) {
	for _, ip := range s.ips {
		if ip.IPAddress == addr {
			return ip, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *tableStore) SaveAccessIP(ctx context.Context, entry *model.AccessIP) error {
	if entry.ID == 0 {
		entry.ID = s.id()
		s.ips = append(s.ips, entry)
	}
	return nil
}

func (s *tableStore) ListAccessIPs(ctx context.Context) ([]model.AccessIP, error) {
	var out []model.AccessIP
	for _, ip := range s.ips {
		out = append(out, *ip)
	}
	return out, nil
}

const adminRule = `
rules:
  - role: ROLE_ADMIN
    description: admin
    resources:
      - name: /admin/**
        type: url
      - name: /reports/**
        type: url
    username: admin@gmail.com
    password: pass
`

const auditorRule = `
  - role: ROLE_AUDITOR
    description: auditor
    resources:
      - name: /audit/**
        type: url
    username: auditor@gmail.com
    password: pass
    parent: ROLE_ADMIN
`

func newTestWatcher(st store.Store) (*ruleWatcher, *bytes.Buffer) {
	audit.SetEnabled(false)

	cfg := &config.Config{SeedAccessIPs: []string{"127.0.0.1"}, BcryptCost: bcrypt.MinCost}
	rw := newRuleWatcher(cfg, st)
	errOut := &bytes.Buffer{}
	rw.out = &bytes.Buffer{}
	rw.errOut = errOut
	return rw, errOut
}

func TestRuleWatcher_OrdinalsKeepIncreasingAcrossEdits(t *testing.T) {
	st := &tableStore{}
	rw, errOut := newTestWatcher(st)
	ctx := context.Background()

	file := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(file, []byte(adminRule), 0o600))
	require.NotNil(t, rw.seed(ctx, file), errOut.String())

	require.NoError(t, os.WriteFile(file, []byte(adminRule+auditorRule), 0o600))
	report := rw.seed(ctx, file)
	require.NotNil(t, report, errOut.String())
	assert.Equal(t, 1, report.Resources.Created)

	ordinals := map[int]string{}
	for _, r := range st.resources {
		if prev, ok := ordinals[r.OrderNum]; ok {
			t.Fatalf("ordinal %d reused by %s and %s", r.OrderNum, prev, r.ResourceName)
		}
		ordinals[r.OrderNum] = r.ResourceName
	}
	assert.Equal(t, map[int]string{1: "/admin/**", 2: "/reports/**", 3: "/audit/**"}, ordinals)
}

func TestRuleWatcher_BadEditIsReported(t *testing.T) {
	st := &tableStore{}
	rw, errOut := newTestWatcher(st)

	file := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(file, []byte("rules: []\n"), 0o600))

	assert.Nil(t, rw.seed(context.Background(), file))
	assert.Contains(t, errOut.String(), "Error loading rules")
	assert.Empty(t, st.roles)
}
