package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/bootstrap"
	"github.com/doodlesbykumbi/coresecurity-in-go/pkg/credential"
	gormstore "github.com/doodlesbykumbi/coresecurity-in-go/pkg/server/store/gorm"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	instance     *ServerInstance
	report       *bootstrap.Report
	seedErr      error
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if s.instance != nil {
			s.instance.Stop()
			s.instance = nil
		}
		return ctx, nil
	})

	// Setup steps
	sc.Step(`^an empty database$`, s.anEmptyDatabase)
	sc.Step(`^the server is started$`, s.theServerIsStarted)
	sc.Step(`^the ready signal fires again$`, s.theReadySignalFiresAgain)
	sc.Step(`^I run the seeder$`, s.iRunTheSeeder)
	sc.Step(`^I run the seeder with access ips "([^"]*)"$`, s.iRunTheSeederWithAccessIPs)

	// Database assertions
	sc.Step(`^the "([^"]*)" table should have (\d+) rows?$`, s.theTableShouldHaveRows)
	sc.Step(`^role "([^"]*)" should have description "([^"]*)"$`, s.roleShouldHaveDescription)
	sc.Step(`^user "([^"]*)" should have role "([^"]*)"$`, s.userShouldHaveRole)
	sc.Step(`^user "([^"]*)" should authenticate with password "([^"]*)"$`, s.userShouldAuthenticate)
	sc.Step(`^resource "([^"]*)" should be bound to roles "([^"]*)"$`, s.resourceShouldBeBoundToRoles)
	sc.Step(`^the resource order numbers should be distinct$`, s.theResourceOrderNumbersShouldBeDistinct)

	// Report assertions
	sc.Step(`^the seeder should report (\d+) created and (\d+) existing$`, s.theSeederShouldReport)

	// HTTP steps
	sc.Step(`^I GET "([^"]*)"$`, s.iGET)
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response body should be:$`, s.theResponseBodyShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
}

func (s *StepsContext) anEmptyDatabase() error {
	return s.tc.Reset()
}

func (s *StepsContext) theServerIsStarted() error {
	instance, err := StartServer(s.tc)
	if err != nil {
		return err
	}
	s.instance = instance
	return nil
}

func (s *StepsContext) theReadySignalFiresAgain() error {
	if s.instance == nil {
		return fmt.Errorf("no server running")
	}
	if !s.tc.InlineMode {
		return godog.ErrSkip
	}
	return s.instance.Ready(context.Background())
}

func (s *StepsContext) iRunTheSeeder() error {
	return s.runSeeder(nil)
}

func (s *StepsContext) iRunTheSeederWithAccessIPs(list string) error {
	var ips []string
	for _, ip := range strings.Split(list, ",") {
		ips = append(ips, strings.TrimSpace(ip))
	}
	return s.runSeeder(ips)
}

func (s *StepsContext) runSeeder(accessIPs []string) error {
	seeder, err := bootstrap.New(gormstore.NewStore(s.tc.DB), credential.NewBcryptHasher(bcrypt.MinCost), bootstrap.Options{
		AccessIPs: accessIPs,
		Source:    "integration",
	})
	if err != nil {
		return err
	}
	s.report, s.seedErr = seeder.Seed(context.Background())
	return s.seedErr
}

func (s *StepsContext) theTableShouldHaveRows(table string, expected int) error {
	var count int64
	if err := s.tc.DB.Table(table).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != expected {
		return fmt.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
	return nil
}

func (s *StepsContext) roleShouldHaveDescription(name, desc string) error {
	role, err := gormstore.NewRolesStore(s.tc.DB).FindRoleByName(context.Background(), name)
	if err != nil {
		return err
	}
	if role.RoleDesc != desc {
		return fmt.Errorf("expected description %q for %s, got %q", desc, name, role.RoleDesc)
	}
	return nil
}

func (s *StepsContext) userShouldHaveRole(username, roleName string) error {
	user, err := gormstore.NewUsersStore(s.tc.DB).FindUserByUsername(context.Background(), username)
	if err != nil {
		return err
	}
	if len(user.Roles) != 1 || user.Roles[0].RoleName != roleName {
		return fmt.Errorf("expected %s to hold only %s, got %v", username, roleName, user.Roles)
	}
	return nil
}

func (s *StepsContext) userShouldAuthenticate(username, password string) error {
	user, err := gormstore.NewUsersStore(s.tc.DB).FindUserByUsername(context.Background(), username)
	if err != nil {
		return err
	}
	if user.Password == password {
		return fmt.Errorf("password for %s is stored in plaintext", username)
	}
	if !credential.NewBcryptHasher(bcrypt.MinCost).Verify(user.Password, password) {
		return fmt.Errorf("password for %s does not verify", username)
	}
	return nil
}

func (s *StepsContext) resourceShouldBeBoundToRoles(name, roles string) error {
	resource, err := gormstore.NewResourcesStore(s.tc.DB).FindResourceByNameAndMethod(context.Background(), name, "")
	if err != nil {
		return err
	}
	var got []string
	for _, role := range resource.Roles {
		got = append(got, role.RoleName)
	}
	if strings.Join(got, ",") != roles {
		return fmt.Errorf("expected %s bound to %s, got %s", name, roles, strings.Join(got, ","))
	}
	return nil
}

func (s *StepsContext) theResourceOrderNumbersShouldBeDistinct() error {
	var total, distinct int64
	if err := s.tc.DB.Raw("SELECT COUNT(*), COUNT(DISTINCT order_num) FROM resources").Row().Scan(&total, &distinct); err != nil {
		return err
	}
	if total != distinct {
		return fmt.Errorf("%d resources share %d order numbers", total, distinct)
	}
	return nil
}

func (s *StepsContext) theSeederShouldReport(created, existing int) error {
	if s.report == nil {
		return fmt.Errorf("no seed report: %v", s.seedErr)
	}
	if s.report.Created() != created || s.report.Existing() != existing {
		return fmt.Errorf("expected %d created and %d existing, got %s", created, existing, s.report)
	}
	return nil
}

func (s *StepsContext) iGET(path string) error {
	if s.instance == nil {
		return fmt.Errorf("no server running")
	}
	resp, err := s.tc.HTTPClient.Get(s.instance.ServerURL + path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldBe(body *godog.DocString) error {
	if strings.TrimSpace(string(s.responseBody)) != strings.TrimSpace(body.Content) {
		return fmt.Errorf("expected body:\n%s\ngot:\n%s", body.Content, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(substr string) error {
	if !strings.Contains(string(s.responseBody), substr) {
		return fmt.Errorf("expected response to contain %q, got %s", substr, string(s.responseBody))
	}
	return nil
}
