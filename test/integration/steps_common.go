package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/assets"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/model"
	gormstore "github.com/doodlesbykumbi/zealot-in-go/pkg/server/store/gorm"
)

var placeholderRegex = regexp.MustCompile(`\{([^}]+)\}`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	users        map[string]*model.User
	apps         map[string]uint
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:    tc,
		users: make(map[string]*model.User),
		apps:  make(map[string]uint),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.resetDatabase()
	})

	// Background steps
	sc.Step(`^a Zealot server is running$`, s.aZealotServerIsRunning)
	sc.Step(`^a user "([^"]*)" with role "([^"]*)" exists$`, s.aUserWithRoleExists)
	sc.Step(`^I am signed in as "([^"]*)"$`, s.iAmSignedInAs)
	sc.Step(`^I am not signed in$`, s.iAmNotSignedIn)
	sc.Step(`^I use the token "([^"]*)"$`, s.iUseTheToken)

	// App fixtures
	sc.Step(`^an app "([^"]*)" exists$`, s.anAppExists)
	sc.Step(`^app "([^"]*)" has uploaded files$`, s.appHasUploadedFiles)

	// Requests
	sc.Step(`^I send a (GET|DELETE) request to "([^"]*)"$`, s.iSendARequestTo)
	sc.Step(`^I send a (POST|PATCH|PUT) request to "([^"]*)" with JSON:$`, s.iSendARequestWithJSON)
	sc.Step(`^I submit the form to "([^"]*)" with:$`, s.iSubmitTheFormWith)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^I should be redirected to "([^"]*)"$`, s.iShouldBeRedirectedTo)
	sc.Step(`^the notice should be "([^"]*)"$`, s.theNoticeShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
	sc.Step(`^the response should list (\d+) apps?$`, s.theResponseShouldListApps)

	// Database assertions
	sc.Step(`^app "([^"]*)" should exist with (\d+) schemes?$`, s.appShouldExistWithSchemes)
	sc.Step(`^app "([^"]*)" should not exist$`, s.appShouldNotExist)
	sc.Step(`^scheme "([^"]*)" of app "([^"]*)" should have channels "([^"]*)"$`, s.schemeShouldHaveChannels)
	sc.Step(`^user "([^"]*)" should be a member of app "([^"]*)"$`, s.userShouldBeAMemberOf)
	sc.Step(`^the uploaded files of app "([^"]*)" should be gone$`, s.theUploadedFilesShouldBeGone)
}

func (s *StepsContext) resetDatabase() error {
	s.authToken = ""
	return s.tc.DB.Exec(`TRUNCATE channels, schemes, apps_users, apps, users RESTART IDENTITY CASCADE`).Error
}

// Background steps

func (s *StepsContext) aZealotServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) aUserWithRoleExists(username, roleName string) error {
	role, err := model.RoleString(roleName)
	if err != nil {
		return err
	}

	user := &model.User{Username: username, Role: role}
	if err := gormstore.NewUsersStore(s.tc.DB).CreateUser(user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", username, err)
	}
	s.users[username] = user
	return nil
}

func (s *StepsContext) iAmSignedInAs(username string) error {
	user, ok := s.users[username]
	if !ok {
		return fmt.Errorf("unknown user %q", username)
	}

	token, err := s.tc.Tokens.Issue(user)
	if err != nil {
		return err
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) iAmNotSignedIn() error {
	s.authToken = ""
	return nil
}

func (s *StepsContext) iUseTheToken(token string) error {
	s.authToken = token
	return nil
}

// App fixtures

func (s *StepsContext) anAppExists(name string) error {
	app := &model.App{Name: name}
	if err := gormstore.NewAppsStore(s.tc.DB).CreateApp(app); err != nil {
		return fmt.Errorf("failed to create app %s: %w", name, err)
	}
	s.apps[name] = app.ID
	return nil
}

func (s *StepsContext) appHasUploadedFiles(name string) error {
	id, err := s.appID(name)
	if err != nil {
		return err
	}

	dir := assets.NewLocalStore(s.tc.UploadsRoot).Location(id)
	if err := os.MkdirAll(filepath.Join(dir, "icons"), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "icons", "icon.png"), []byte("png"), 0o644)
}

// Requests

func (s *StepsContext) iSendARequestTo(method, path string) error {
	return s.do(method, path, nil, "")
}

func (s *StepsContext) iSendARequestWithJSON(method, path string, body *godog.DocString) error {
	return s.do(method, path, strings.NewReader(body.Content), "application/json")
}

func (s *StepsContext) iSubmitTheFormWith(path string, table *godog.Table) error {
	form := url.Values{}
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("form rows need a key and a value")
		}
		form.Add(row.Cells[0].Value, row.Cells[1].Value)
	}
	return s.do("POST", path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func (s *StepsContext) do(method, path string, body io.Reader, contentType string) error {
	req, err := http.NewRequest(method, s.tc.ServerURL+s.expandPath(path), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// expandPath replaces {App Name} with the id of that app. Unknown names
// are left as they are.
func (s *StepsContext) expandPath(path string) string {
	return placeholderRegex.ReplaceAllStringFunc(path, func(match string) string {
		name := match[1 : len(match)-1]
		if id, ok := s.apps[name]; ok {
			return strconv.FormatUint(uint64(id), 10)
		}
		return match
	})
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iShouldBeRedirectedTo(path string) error {
	if err := s.theResponseStatusShouldBe(http.StatusFound); err != nil {
		return err
	}
	if location := s.response.Header.Get("Location"); location != path {
		return fmt.Errorf("expected redirect to %q, got %q", path, location)
	}
	return nil
}

func (s *StepsContext) theNoticeShouldBe(expected string) error {
	notice := s.response.Header.Get("X-Zealot-Notice")
	if notice != expected {
		return fmt.Errorf("expected notice %q, got %q", expected, notice)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected body to contain %q, got %q", expected, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldListApps(count int) error {
	var body struct {
		Apps []model.App `json:"apps"`
	}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if len(body.Apps) != count {
		return fmt.Errorf("expected %d apps, got %d", count, len(body.Apps))
	}
	return nil
}

// Database assertions

func (s *StepsContext) findApp(name string) (*model.App, error) {
	var app model.App
	err := s.tc.DB.Preload("Schemes.Channels").Preload("Users").Where("name = ?", name).First(&app).Error
	if err != nil {
		return nil, fmt.Errorf("app %q: %w", name, err)
	}
	s.apps[name] = app.ID
	return &app, nil
}

func (s *StepsContext) appID(name string) (uint, error) {
	if id, ok := s.apps[name]; ok {
		return id, nil
	}
	app, err := s.findApp(name)
	if err != nil {
		return 0, err
	}
	return app.ID, nil
}

func (s *StepsContext) appShouldExistWithSchemes(name string, count int) error {
	app, err := s.findApp(name)
	if err != nil {
		return err
	}
	if len(app.Schemes) != count {
		return fmt.Errorf("expected %d schemes for %s, got %d", count, name, len(app.Schemes))
	}
	return nil
}

func (s *StepsContext) appShouldNotExist(name string) error {
	var count int64
	if err := s.tc.DB.Model(&model.App{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return err
	}
	if count != 0 {
		return fmt.Errorf("expected app %q to be deleted", name)
	}

	var schemes int64
	if id, ok := s.apps[name]; ok {
		if err := s.tc.DB.Model(&model.Scheme{}).Where("app_id = ?", id).Count(&schemes).Error; err != nil {
			return err
		}
	}
	if schemes != 0 {
		return fmt.Errorf("expected schemes of %q to be deleted", name)
	}
	return nil
}

func (s *StepsContext) schemeShouldHaveChannels(schemeName, appName, channels string) error {
	app, err := s.findApp(appName)
	if err != nil {
		return err
	}

	for _, scheme := range app.Schemes {
		if scheme.Name != schemeName {
			continue
		}
		var got []string
		for _, ch := range scheme.Channels {
			got = append(got, ch.Name+"/"+ch.DeviceType.String())
		}
		sort.Strings(got)

		want := strings.Split(channels, ",")
		for i := range want {
			want[i] = strings.TrimSpace(want[i])
		}
		sort.Strings(want)

		if strings.Join(got, ",") != strings.Join(want, ",") {
			return fmt.Errorf("expected channels %v, got %v", want, got)
		}
		return nil
	}
	return fmt.Errorf("app %q has no scheme %q", appName, schemeName)
}

func (s *StepsContext) userShouldBeAMemberOf(username, appName string) error {
	app, err := s.findApp(appName)
	if err != nil {
		return err
	}
	user, ok := s.users[username]
	if !ok {
		return fmt.Errorf("unknown user %q", username)
	}
	if !app.HasMember(user.ID) {
		return fmt.Errorf("user %q is not a member of %q", username, appName)
	}
	return nil
}

func (s *StepsContext) theUploadedFilesShouldBeGone(name string) error {
	id, ok := s.apps[name]
	if !ok {
		return fmt.Errorf("unknown app %q", name)
	}

	dir := assets.NewLocalStore(s.tc.UploadsRoot).Location(id)
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		return fmt.Errorf("expected %s to be removed", dir)
	}
	return nil
}
