// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/danielhkuo/voxpop/auth"
	"github.com/danielhkuo/voxpop/cliparse"
	"github.com/danielhkuo/voxpop/db"
	"github.com/danielhkuo/voxpop/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TestJWTSecret signs every token minted by the helpers
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh SQLite database with the full schema.
// The file lives under t.TempDir() and is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"

	conn, err := db.Open(context.Background(), db.TypeSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "file::memory:",
		DatabaseType:    db.TypeSQLite,
		JWTSecret:       TestJWTSecret,
		Timezone:        "UTC",
		ShutdownTimeout: 10 * time.Second,
	}
}

// CreateTestUser inserts a user with a public profile and an empty wallet
func CreateTestUser(t *testing.T, conn *sql.DB, name string, role models.Role) models.User {
	t.Helper()
	return CreateTestUserWithDemographics(t, conn, name, role, models.Demographics{})
}

// CreateTestUserWithDemographics is CreateTestUser with segmentation attributes
func CreateTestUserWithDemographics(t *testing.T, conn *sql.DB, name string, role models.Role, d models.Demographics) models.User {
	t.Helper()

	user := models.User{
		ID:           auth.NewID(),
		Name:         name,
		Role:         role,
		Demographics: d,
		CreatedAt:    time.Now().UTC(),
	}
	user.Email = strings.ToLower(name) + "-" + user.ID[:8] + "@example.com"

	_, err := conn.Exec(`
		INSERT INTO app_user (id, name, email, role, sex, city, occupation, education_level,
			religion, nationality, marital_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, user.ID, user.Name, user.Email, role.String(), d.Sex, d.City, d.Occupation, d.Education,
		d.Religion, d.Nationality, d.MaritalStatus, user.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO public_profile (user_id, alias) VALUES ($1, $2)
	`, user.ID, strings.ToLower(name)+"-"+user.ID[:8])
	if err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO wallet (id, user_id, balance) VALUES ($1, $2, 0)
	`, auth.NewID(), user.ID)
	if err != nil {
		t.Fatalf("Failed to create test wallet: %v", err)
	}

	return user
}

// DeleteTestWallet removes the user's wallet for the no-wallet paths
func DeleteTestWallet(t *testing.T, conn *sql.DB, userID string) {
	t.Helper()
	if _, err := conn.Exec(`DELETE FROM wallet WHERE user_id = $1`, userID); err != nil {
		t.Fatalf("Failed to delete test wallet: %v", err)
	}
}

// SetTestProfile overwrites the gamification counters of a user
func SetTestProfile(t *testing.T, conn *sql.DB, userID string, points, streak int64, lastParticipation *string) {
	t.Helper()
	_, err := conn.Exec(`
		UPDATE public_profile
		SET points = $1, level = $2, streak_days = $3, last_participation = $4
		WHERE user_id = $5
	`, points, models.LevelFor(points), streak, lastParticipation, userID)
	if err != nil {
		t.Fatalf("Failed to set test profile: %v", err)
	}
}

// SurveyOptions configures CreateTestSurvey. Zero values give a public,
// unsponsored, never-expiring survey.
type SurveyOptions struct {
	Title        string
	Sponsored    bool
	SponsorName  string
	RewardPoints int64
	RewardMoney  int64
	Budget       int64
	Visibility   models.Visibility
	ExpiresAt    *time.Time
	CreatedAt    *time.Time
	Segmentation models.Segmentation
}

// CreateTestSurvey creates a survey without questions and returns its ID
func CreateTestSurvey(t *testing.T, conn *sql.DB, opts SurveyOptions) string {
	t.Helper()

	if opts.Title == "" {
		opts.Title = "Test Survey"
	}
	if opts.Visibility == "" {
		opts.Visibility = models.VisibilityPublic
	}
	createdAt := time.Now().UTC()
	if opts.CreatedAt != nil {
		createdAt = opts.CreatedAt.UTC()
	}
	var expiresAt *time.Time
	if opts.ExpiresAt != nil {
		e := opts.ExpiresAt.UTC()
		expiresAt = &e
	}

	surveyID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO survey (id, title, description, expires_at, sponsored, sponsor_name,
			reward_points, reward_money, budget, visibility, created_at)
		VALUES ($1, $2, 'A test survey', $3, $4, $5, $6, $7, $8, $9, $10)
	`, surveyID, opts.Title, expiresAt, opts.Sponsored, opts.SponsorName,
		opts.RewardPoints, opts.RewardMoney, opts.Budget, string(opts.Visibility), createdAt)
	if err != nil {
		t.Fatalf("Failed to create test survey: %v", err)
	}

	for dim, values := range opts.Segmentation {
		for _, v := range values {
			_, err := conn.Exec(`
				INSERT INTO survey_segment (survey_id, dimension, value) VALUES ($1, $2, $3)
			`, surveyID, string(dim), v)
			if err != nil {
				t.Fatalf("Failed to create test segment: %v", err)
			}
		}
	}

	return surveyID
}

// AddTestQuestion adds a question to a survey and returns the question ID
func AddTestQuestion(t *testing.T, conn *sql.DB, surveyID, text string) string {
	t.Helper()

	var position int
	conn.QueryRow(`SELECT COUNT(*) FROM question WHERE survey_id = $1`, surveyID).Scan(&position)

	questionID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO question (id, survey_id, text, position) VALUES ($1, $2, $3, $4)
	`, questionID, surveyID, text, position)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return questionID
}

// AddTestOption adds an option to a question and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, questionID, text string) string {
	t.Helper()

	var position int
	conn.QueryRow(`SELECT COUNT(*) FROM answer_option WHERE question_id = $1`, questionID).Scan(&position)

	optionID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO answer_option (id, question_id, text, position) VALUES ($1, $2, $3, $4)
	`, optionID, questionID, text, position)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// InsertTestVote writes a vote row directly, bypassing settlement
func InsertTestVote(t *testing.T, conn *sql.DB, surveyID, questionID, optionID, userID string) {
	t.Helper()
	_, err := conn.Exec(`
		INSERT INTO vote (id, survey_id, question_id, option_id, user_id) VALUES ($1, $2, $3, $4, $5)
	`, auth.NewID(), surveyID, questionID, optionID, userID)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// Count returns the number of rows matching a query of the form SELECT COUNT(*) ...
func Count(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

// AuthHeader returns an Authorization header map for the user
func AuthHeader(t *testing.T, userID string) map[string]string {
	t.Helper()
	tok, err := auth.IssueToken(TestJWTSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + tok}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
