package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/netip"
	"sync"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/audit"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/credential"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store"
)

// Recorder observes finished seeding runs
type Recorder interface {
	ObserveSeed(report *Report, err error)
}

// Options configures a Seeder. Zero values select the defaults.
type Options struct {
	Rules     []Rule
	AccessIPs []string
	Sequence  Sequence
	Logger    *log.Logger
	Recorder  Recorder
	// Audit receives one SeedEvent per run; defaults to audit.Log
	Audit func(audit.Event)
	// Source labels audit events, e.g. "startup" or "cli"
	Source string
}

// Seeder writes the default authorization records. Every run is a
// find-or-create pass inside a single transaction, so repeated runs
// against the same database leave it unchanged.
type Seeder struct {
	store     store.Store
	hasher    credential.Hasher
	rules     []Rule
	accessIPs []string
	seq       Sequence
	logger    *log.Logger
	recorder  Recorder
	audit     func(audit.Event)
	source    string

	mu  sync.Mutex
	ran bool
}

// New validates opts and returns a Seeder
func New(st store.Store, hasher credential.Hasher, opts Options) (*Seeder, error) {
	s := &Seeder{
		store:    st,
		hasher:   hasher,
		rules:    opts.Rules,
		seq:      opts.Sequence,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		audit:    opts.Audit,
		source:   opts.Source,
	}
	if s.rules == nil {
		s.rules = DefaultRules()
	}
	if err := ValidateRules(s.rules); err != nil {
		return nil, err
	}

	ips := opts.AccessIPs
	if len(ips) == 0 {
		ips = DefaultAccessIPs
	}
	for _, raw := range ips {
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("access ip %q: %w", raw, err)
		}
		s.accessIPs = append(s.accessIPs, addr.String())
	}

	if s.seq == nil {
		s.seq = NewSequence()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.audit == nil {
		s.audit = audit.Log
	}
	if s.source == "" {
		s.source = "startup"
	}
	return s, nil
}

// HandleReady runs Seed on the first call and does nothing afterwards.
// A failed run leaves the gate open so the error reaches the caller.
func (s *Seeder) HandleReady(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ran {
		return nil
	}
	if _, err := s.Seed(ctx); err != nil {
		return err
	}
	s.ran = true
	return nil
}

// Ran reports whether HandleReady has completed a run
func (s *Seeder) Ran() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ran
}

// Seed applies every rule and then the IP allow-list in one transaction.
// Any error rolls the whole run back.
func (s *Seeder) Seed(ctx context.Context) (*Report, error) {
	report := &Report{}
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		for _, rule := range s.rules {
			if err := s.applyRule(ctx, tx, rule, report); err != nil {
				return err
			}
		}
		return s.seedAccessIPs(ctx, tx, report)
	})
	if err != nil {
		err = fmt.Errorf("seed: %w", err)
		s.logger.Printf("Seeding failed, rolled back: %v", err)
		s.audit(audit.SeedEvent{Source: s.source, Success: false, ErrorMessage: err.Error()})
		if s.recorder != nil {
			s.recorder.ObserveSeed(nil, err)
		}
		return nil, err
	}

	s.logger.Printf("Seeding complete: %s", report)
	s.audit(audit.SeedEvent{
		Source:   s.source,
		Created:  report.Created(),
		Existing: report.Existing(),
		Success:  true,
	})
	if s.recorder != nil {
		s.recorder.ObserveSeed(report, nil)
	}
	return report, nil
}

func (s *Seeder) applyRule(ctx context.Context, tx store.Store, rule Rule, report *Report) error {
	role, err := s.roleFor(ctx, tx, rule.RoleName, rule.RoleDesc, report)
	if err != nil {
		return err
	}
	roles := []model.Role{*role}

	for _, spec := range rule.Resources {
		if err := s.resourceFor(ctx, tx, spec, roles, report); err != nil {
			return err
		}
	}

	if err := s.userFor(ctx, tx, rule.Username, rule.Password, roles, report); err != nil {
		return err
	}

	if rule.ParentRole != "" {
		if err := s.linkHierarchy(ctx, tx, rule.RoleName, rule.ParentRole, report); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) roleFor(ctx context.Context, tx store.Store, name, desc string, report *Report) (*model.Role, error) {
	role, err := tx.FindRoleByName(ctx, name)
	if err == nil {
		report.Roles.Existing++
		return role, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find role %q: %w", name, err)
	}

	role = &model.Role{RoleName: name, RoleDesc: desc}
	if err := tx.SaveRole(ctx, role); err != nil {
		return nil, fmt.Errorf("save role %q: %w", name, err)
	}
	report.Roles.Created++
	return role, nil
}

func (s *Seeder) resourceFor(ctx context.Context, tx store.Store, spec ResourceSpec, roles []model.Role, report *Report) error {
	resource, err := tx.FindResourceByNameAndMethod(ctx, spec.Name, spec.HTTPMethod)
	if err == nil {
		report.Resources.Existing++
		for _, r := range roles {
			if !resource.HasRole(r.RoleName) {
				s.logger.Printf("WARN: resource %q already exists without %s; its roles are left as %v",
					spec.Name, r.RoleName, resource.RoleNames())
			}
		}
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("find resource %q: %w", spec.Name, err)
	}

	resource = &model.Resource{
		ResourceName: spec.Name,
		HTTPMethod:   spec.HTTPMethod,
		ResourceType: spec.Type,
		OrderNum:     s.seq.Next(),
		Roles:        roles,
	}
	if err := tx.SaveResource(ctx, resource); err != nil {
		return fmt.Errorf("save resource %q: %w", spec.Name, err)
	}
	report.Resources.Created++
	return nil
}

func (s *Seeder) userFor(ctx context.Context, tx store.Store, username, password string, roles []model.Role, report *Report) error {
	_, err := tx.FindUserByUsername(ctx, username)
	if err == nil {
		report.Users.Existing++
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("find user %q: %w", username, err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password for %q: %w", username, err)
	}
	user := &model.User{
		Username: username,
		Password: digest,
		Enabled:  true,
		Roles:    roles,
	}
	if err := tx.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save user %q: %w", username, err)
	}
	report.Users.Created++
	return nil
}

// linkHierarchy points child's node at parent's node, creating either node
// as needed. The link is rewritten on every run.
func (s *Seeder) linkHierarchy(ctx context.Context, tx store.Store, child, parent string, report *Report) error {
	parentNode, err := s.nodeFor(ctx, tx, parent, report)
	if err != nil {
		return err
	}
	childNode, err := s.nodeFor(ctx, tx, child, report)
	if err != nil {
		return err
	}

	childNode.ParentID = &parentNode.ID
	childNode.Parent = nil
	if err := tx.SaveHierarchy(ctx, childNode); err != nil {
		return fmt.Errorf("link role hierarchy %s > %s: %w", parent, child, err)
	}
	return nil
}

func (s *Seeder) nodeFor(ctx context.Context, tx store.Store, name string, report *Report) (*model.RoleHierarchy, error) {
	node, err := tx.FindHierarchyByChildName(ctx, name)
	if err == nil {
		report.RoleHierarchy.Existing++
		return node, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find role hierarchy %q: %w", name, err)
	}

	node = &model.RoleHierarchy{ChildName: name}
	if err := tx.SaveHierarchy(ctx, node); err != nil {
		return nil, fmt.Errorf("save role hierarchy %q: %w", name, err)
	}
	report.RoleHierarchy.Created++
	return node, nil
}

func (s *Seeder) seedAccessIPs(ctx context.Context, tx store.Store, report *Report) error {
	for _, addr := range s.accessIPs {
		_, err := tx.FindAccessIPByAddress(ctx, addr)
		if err == nil {
			report.AccessIPs.Existing++
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("find access ip %s: %w", addr, err)
		}
		if err := tx.SaveAccessIP(ctx, &model.AccessIP{IPAddress: addr}); err != nil {
			return fmt.Errorf("save access ip %s: %w", addr, err)
		}
		report.AccessIPs.Created++
	}
	return nil
}
