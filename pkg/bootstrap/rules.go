package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/model"
)

// ResourceSpec describes one protected resource a rule grants
type ResourceSpec struct {
	Name       string             `yaml:"name"`
	HTTPMethod string             `yaml:"http_method"`
	Type       model.ResourceType `yaml:"type"`
}

// Rule is one row of the seeding table: a role, the resources it is
// granted, the user that holds it and, optionally, the role it inherits
// from.
type Rule struct {
	RoleName   string         `yaml:"role"`
	RoleDesc   string         `yaml:"description"`
	Resources  []ResourceSpec `yaml:"resources"`
	Username   string         `yaml:"username"`
	Password   string         `yaml:"password"`
	ParentRole string         `yaml:"parent,omitempty"`
}

// DefaultAccessIPs is the allow-list seeded when none is configured
var DefaultAccessIPs = []string{"127.0.0.1"}

const defaultPassword = "pass"

// DefaultRules returns the built-in seeding table
func DefaultRules() []Rule {
	return []Rule{
		{
			RoleName: "ROLE_ADMIN",
			RoleDesc: "관리자",
			Resources: []ResourceSpec{
				{Name: "/admin/**", Type: model.ResourceTypeURL},
			},
			Username: "admin@gmail.com",
			Password: defaultPassword,
		},
		{
			RoleName: "ROLE_MANAGER",
			RoleDesc: "매니저",
			Resources: []ResourceSpec{
				{Name: "io.security.corespringsecurity.test.method.MethodService.methodTest", Type: model.ResourceTypeMethod},
				{Name: "io.security.corespringsecurity.test.method.MethodService.innerCallMethodTest", Type: model.ResourceTypeMethod},
				{Name: "execution(* io.security.corespringsecurity.test.aop.*Service.*(..))", Type: model.ResourceTypePointcut},
			},
			Username:   "manager@gmail.com",
			Password:   defaultPassword,
			ParentRole: "ROLE_ADMIN",
		},
		{
			RoleName: "ROLE_DIRECTOR",
			RoleDesc: "디렉터",
			Resources: []ResourceSpec{
				{Name: "/director/**", Type: model.ResourceTypeURL},
			},
			Username:   "director@gmail.com",
			Password:   defaultPassword,
			ParentRole: "ROLE_ADMIN",
		},
		{
			RoleName: "ROLE_USER",
			RoleDesc: "정회원",
			Resources: []ResourceSpec{
				{Name: "/users/**", Type: model.ResourceTypeURL},
			},
			Username:   "onjsdnjs@gmail.com",
			Password:   defaultPassword,
			ParentRole: "ROLE_MANAGER",
		},
		{
			RoleName: "ROLE_IUSER",
			RoleDesc: "준회원",
			Resources: []ResourceSpec{
				{Name: "/users/**", Type: model.ResourceTypeURL},
			},
			Username:   "onjsdnjs@daum.com",
			Password:   defaultPassword,
			ParentRole: "ROLE_MANAGER",
		},
	}
}

// ErrInvalidRule is returned when a rule table fails validation
var ErrInvalidRule = errors.New("invalid seed rule")

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules decodes and validates a YAML rule table of the form
//
//	rules:
//	  - role: ROLE_ADMIN
//	    description: 관리자
//	    resources:
//	      - name: /admin/**
//	        type: url
//	    username: admin@gmail.com
//	    password: pass
func LoadRules(r io.Reader) ([]Rule, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f ruleFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty rule file", ErrInvalidRule)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	if err := ValidateRules(f.Rules); err != nil {
		return nil, err
	}
	return f.Rules, nil
}

// LoadRulesFile reads a rule table from path
func LoadRulesFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule file: %w", err)
	}
	defer f.Close()

	rules, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// ValidateRules checks that every rule is complete, that every parent
// names a role defined somewhere in the table and that no chain of parents
// loops back on itself
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("%w: no rules", ErrInvalidRule)
	}

	defined := make(map[string]bool, len(rules))
	for _, rule := range rules {
		defined[rule.RoleName] = true
	}

	for i, rule := range rules {
		switch {
		case rule.RoleName == "":
			return fmt.Errorf("%w: rule %d: role is required", ErrInvalidRule, i)
		case rule.Username == "":
			return fmt.Errorf("%w: rule %d (%s): username is required", ErrInvalidRule, i, rule.RoleName)
		case rule.Password == "":
			return fmt.Errorf("%w: rule %d (%s): password is required", ErrInvalidRule, i, rule.RoleName)
		case len(rule.Resources) == 0:
			return fmt.Errorf("%w: rule %d (%s): at least one resource is required", ErrInvalidRule, i, rule.RoleName)
		case rule.ParentRole == rule.RoleName:
			return fmt.Errorf("%w: rule %d (%s): role cannot be its own parent", ErrInvalidRule, i, rule.RoleName)
		case rule.ParentRole != "" && !defined[rule.ParentRole]:
			return fmt.Errorf("%w: rule %d (%s): parent %s is not defined", ErrInvalidRule, i, rule.RoleName, rule.ParentRole)
		}
		for j, res := range rule.Resources {
			if res.Name == "" {
				return fmt.Errorf("%w: rule %d (%s): resource %d: name is required", ErrInvalidRule, i, rule.RoleName, j)
			}
			if !res.Type.IsAResourceType() {
				return fmt.Errorf("%w: rule %d (%s): resource %d: unknown type %d", ErrInvalidRule, i, rule.RoleName, j, int(res.Type))
			}
		}
	}

	if cycle := parentCycle(rules); cycle != nil {
		return fmt.Errorf("%w: parent cycle %s", ErrInvalidRule, strings.Join(cycle, " > "))
	}
	return nil
}

// parentCycle returns the first loop in the parent links, starting and
// ending on the same role, or nil. A role listed twice keeps its last
// parent, matching what seeding persists.
func parentCycle(rules []Rule) []string {
	parents := make(map[string]string, len(rules))
	for _, rule := range rules {
		if rule.ParentRole != "" {
			parents[rule.RoleName] = rule.ParentRole
		}
	}

	done := make(map[string]bool, len(rules))
	for _, rule := range rules {
		var path []string
		onPath := map[string]int{}
		for name := rule.RoleName; name != "" && !done[name]; name = parents[name] {
			if at, ok := onPath[name]; ok {
				return append(path[at:], name)
			}
			onPath[name] = len(path)
			path = append(path, name)
		}
		for _, name := range path {
			done[name] = true
		}
	}
	return nil
}
