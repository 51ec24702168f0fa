// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package settlement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.uber.org/goleak"

	"github.com/danielhkuo/voxpop/achievements"
	"github.com/danielhkuo/voxpop/metrics"
	"github.com/danielhkuo/voxpop/models"
	"github.com/danielhkuo/voxpop/testutil"
)

func TestMain(m *testing.M) {
	// glog, pulled in by the ristretto catalog cache, flushes from a goroutine started in init
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/golang/glog.(*fileSink).flushDaemon"))
}

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func setup(t *testing.T, opts ...Option) (*sql.DB, *Engine) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	if err := achievements.Seed(context.Background(), conn); err != nil {
		t.Fatalf("Failed to seed achievements: %v", err)
	}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return conn, NewEngine(conn, opts...)
}

// oneQuestionSurvey creates a survey with one question and options A and B
func oneQuestionSurvey(t *testing.T, conn *sql.DB, opts testutil.SurveyOptions) (surveyID, questionID, optA, optB string) {
	t.Helper()
	surveyID = testutil.CreateTestSurvey(t, conn, opts)
	questionID = testutil.AddTestQuestion(t, conn, surveyID, "Favorite?")
	optA = testutil.AddTestOption(t, conn, questionID, "A")
	optB = testutil.AddTestOption(t, conn, questionID, "B")
	return
}

func budget(t *testing.T, conn *sql.DB, surveyID string) int64 {
	t.Helper()
	var b int64
	if err := conn.QueryRow(`SELECT budget FROM survey WHERE id = $1`, surveyID).Scan(&b); err != nil {
		t.Fatalf("Failed to read budget: %v", err)
	}
	return b
}

func walletBalance(t *testing.T, conn *sql.DB, userID string) int64 {
	t.Helper()
	var b int64
	if err := conn.QueryRow(`SELECT balance FROM wallet WHERE user_id = $1`, userID).Scan(&b); err != nil {
		t.Fatalf("Failed to read wallet: %v", err)
	}
	return b
}

func TestSubmitVotes_BudgetScenario(t *testing.T) {
	conn, engine := setup(t)
	ctx := context.Background()

	surveyID, questionID, optA, optB := oneQuestionSurvey(t, conn, testutil.SurveyOptions{
		Sponsored:   true,
		SponsorName: "Acme",
		RewardMoney: 10,
		Budget:      100,
	})

	user1 := testutil.CreateTestUser(t, conn, "user1", models.RoleUser)
	res, err := engine.SubmitVotes(ctx, surveyID, user1, []models.Answer{{QuestionID: questionID, OptionID: optA}})
	if err != nil {
		t.Fatalf("SubmitVotes() error = %v", err)
	}
	if res.RemainingBudget != 90 {
		t.Errorf("RemainingBudget = %d, want 90", res.RemainingBudget)
	}
	if res.WalletBalance == nil || *res.WalletBalance != 10 {
		t.Errorf("WalletBalance = %v, want 10", res.WalletBalance)
	}
	var chosen string
	conn.QueryRow(`SELECT option_id FROM vote WHERE user_id = $1 AND question_id = $2`, user1.ID, questionID).Scan(&chosen)
	if chosen != optA {
		t.Errorf("stored option = %s, want %s", chosen, optA)
	}

	// Second attempt on the same question
	_, err = engine.SubmitVotes(ctx, surveyID, user1, []models.Answer{{QuestionID: questionID, OptionID: optB}})
	var dup *models.DuplicateVoteError
	if !errors.As(err, &dup) || dup.QuestionID != questionID {
		t.Fatalf("second SubmitVotes() error = %v, want DuplicateVoteError for %s", err, questionID)
	}
	if b := budget(t, conn, surveyID); b != 90 {
		t.Errorf("budget after duplicate = %d, want 90", b)
	}
	if w := walletBalance(t, conn, user1.ID); w != 10 {
		t.Errorf("wallet after duplicate = %d, want 10", w)
	}

	// Nine more voters drain the budget
	for i := 2; i <= 10; i++ {
		u := testutil.CreateTestUser(t, conn, fmt.Sprintf("user%d", i), models.RoleUser)
		if _, err := engine.SubmitVotes(ctx, surveyID, u, []models.Answer{{QuestionID: questionID, OptionID: optB}}); err != nil {
			t.Fatalf("voter %d: SubmitVotes() error = %v", i, err)
		}
	}
	if b := budget(t, conn, surveyID); b != 0 {
		t.Errorf("budget after ten votes = %d, want 0", b)
	}

	eleventh := testutil.CreateTestUser(t, conn, "user11", models.RoleUser)
	_, err = engine.SubmitVotes(ctx, surveyID, eleventh, []models.Answer{{QuestionID: questionID, OptionID: optA}})
	if !errors.Is(err, models.ErrBudgetExhausted) {
		t.Errorf("eleventh SubmitVotes() error = %v, want ErrBudgetExhausted", err)
	}

	if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM sponsor_transaction WHERE survey_id = $1`, surveyID); n != 10 {
		t.Errorf("sponsor transactions = %d, want 10", n)
	}
	if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM vote WHERE user_id = $1`, eleventh.ID); n != 0 {
		t.Errorf("eleventh user has %d votes, want 0", n)
	}
}

func TestSubmitVotes_BudgetFloorsAtZero(t *testing.T) {
	conn, engine := setup(t)
	ctx := context.Background()

	surveyID, questionID, optA, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{
		Sponsored:   true,
		SponsorName: "Acme",
		RewardMoney: 10,
		Budget:      15,
	})

	want := []int64{5, 0}
	for i, w := range want {
		u := testutil.CreateTestUser(t, conn, fmt.Sprintf("floor%d", i), models.RoleUser)
		res, err := engine.SubmitVotes(ctx, surveyID, u, []models.Answer{{QuestionID: questionID, OptionID: optA}})
		if err != nil {
			t.Fatalf("vote %d: error = %v", i, err)
		}
		if res.RemainingBudget != w {
			t.Errorf("vote %d: RemainingBudget = %d, want %d", i, res.RemainingBudget, w)
		}
	}

	u := testutil.CreateTestUser(t, conn, "floor-late", models.RoleUser)
	_, err := engine.SubmitVotes(ctx, surveyID, u, []models.Answer{{QuestionID: questionID, OptionID: optA}})
	if !errors.Is(err, models.ErrBudgetExhausted) {
		t.Errorf("error = %v, want ErrBudgetExhausted", err)
	}
}

func TestSubmitVotes_Rejections(t *testing.T) {
	conn, engine := setup(t)
	ctx := context.Background()

	past := fixedNow.Add(-time.Hour)
	expiredID, expiredQ, expiredOpt, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{ExpiresAt: &past})

	surveyID := testutil.CreateTestSurvey(t, conn, testutil.SurveyOptions{RewardPoints: 5, RewardMoney: 3, Budget: 30})
	q1 := testutil.AddTestQuestion(t, conn, surveyID, "Q1")
	q1a := testutil.AddTestOption(t, conn, q1, "Q1 A")
	q2 := testutil.AddTestQuestion(t, conn, surveyID, "Q2")
	q2a := testutil.AddTestOption(t, conn, q2, "Q2 A")

	_, foreignQ, foreignOpt, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{})

	voter := testutil.CreateTestUser(t, conn, "voter", models.RoleUser)
	sponsor := testutil.CreateTestUser(t, conn, "sponsor", models.RoleSponsor)
	admin := testutil.CreateTestUser(t, conn, "admin", models.RoleAdmin)

	tests := []struct {
		name     string
		surveyID string
		user     models.User
		answers  []models.Answer
		wantErr  error
	}{
		{"unknown survey", "missing", voter, []models.Answer{{QuestionID: q1, OptionID: q1a}}, models.ErrNotFound},
		{"expired survey", expiredID, voter, []models.Answer{{QuestionID: expiredQ, OptionID: expiredOpt}}, models.ErrSurveyClosed},
		{"sponsor cannot vote", surveyID, sponsor, []models.Answer{{QuestionID: q1, OptionID: q1a}}, models.ErrForbidden},
		{"admin cannot vote", surveyID, admin, []models.Answer{{QuestionID: q1, OptionID: q1a}}, models.ErrForbidden},
		{"no answers", surveyID, voter, nil, models.ErrInvalidOption},
		{"blank option", surveyID, voter, []models.Answer{{QuestionID: q1}}, models.ErrInvalidOption},
		{"option of another question", surveyID, voter, []models.Answer{{QuestionID: q1, OptionID: q2a}}, models.ErrInvalidOption},
		{"unknown option", surveyID, voter, []models.Answer{{QuestionID: q1, OptionID: "nope"}}, models.ErrInvalidOption},
		{"question of another survey", surveyID, voter, []models.Answer{{QuestionID: foreignQ, OptionID: foreignOpt}}, models.ErrInvalidOption},
		{
			"valid first answer, invalid second",
			surveyID, voter,
			[]models.Answer{{QuestionID: q1, OptionID: q1a}, {QuestionID: q2, OptionID: q1a}},
			models.ErrInvalidOption,
		},
		{
			"same question twice",
			surveyID, voter,
			[]models.Answer{{QuestionID: q1, OptionID: q1a}, {QuestionID: q1, OptionID: q1a}},
			models.ErrDuplicateVote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.SubmitVotes(ctx, tt.surveyID, tt.user, tt.answers)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SubmitVotes() error = %v, want %v", err, tt.wantErr)
			}

			// Nothing written
			if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM vote`); n != 0 {
				t.Errorf("votes = %d, want 0", n)
			}
			if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM participation`); n != 0 {
				t.Errorf("participations = %d, want 0", n)
			}
			if b := budget(t, conn, surveyID); b != 30 {
				t.Errorf("budget = %d, want 30", b)
			}
			if w := walletBalance(t, conn, voter.ID); w != 0 {
				t.Errorf("wallet = %d, want 0", w)
			}
		})
	}
}

func TestSubmitVotes_AllOrNothingOnExistingVote(t *testing.T) {
	conn, engine := setup(t)
	ctx := context.Background()

	surveyID := testutil.CreateTestSurvey(t, conn, testutil.SurveyOptions{RewardPoints: 10})
	q1 := testutil.AddTestQuestion(t, conn, surveyID, "Q1")
	q1a := testutil.AddTestOption(t, conn, q1, "A")
	q2 := testutil.AddTestQuestion(t, conn, surveyID, "Q2")
	q2a := testutil.AddTestOption(t, conn, q2, "A")

	user := testutil.CreateTestUser(t, conn, "partial", models.RoleUser)
	testutil.InsertTestVote(t, conn, surveyID, q2, q2a, user.ID)

	_, err := engine.SubmitVotes(ctx, surveyID, user, []models.Answer{
		{QuestionID: q1, OptionID: q1a},
		{QuestionID: q2, OptionID: q2a},
	})
	var dup *models.DuplicateVoteError
	if !errors.As(err, &dup) || dup.QuestionID != q2 {
		t.Fatalf("error = %v, want DuplicateVoteError naming q2", err)
	}

	if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM vote WHERE user_id = $1 AND question_id = $2`, user.ID, q1); n != 0 {
		t.Error("q1 vote was committed despite the duplicate on q2")
	}
	var points int64
	conn.QueryRow(`SELECT points FROM public_profile WHERE user_id = $1`, user.ID).Scan(&points)
	if points != 0 {
		t.Errorf("points = %d, want 0", points)
	}
}

// A vote row the per-survey lookup cannot see still trips the
// (user, question) constraint, which must surface as a duplicate
func TestSubmitVotes_ConstraintReportsDuplicate(t *testing.T) {
	conn, engine := setup(t)
	ctx := context.Background()

	surveyID, q, optA, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{
		Sponsored: true, SponsorName: "Acme", RewardPoints: 10, RewardMoney: 5, Budget: 20,
	})
	elsewhere := testutil.CreateTestSurvey(t, conn, testutil.SurveyOptions{Title: "Elsewhere"})

	user := testutil.CreateTestUser(t, conn, "stray", models.RoleUser)
	testutil.InsertTestVote(t, conn, elsewhere, q, optA, user.ID)

	_, err := engine.SubmitVotes(ctx, surveyID, user, []models.Answer{{QuestionID: q, OptionID: optA}})
	var dup *models.DuplicateVoteError
	if !errors.As(err, &dup) || dup.QuestionID != q {
		t.Fatalf("error = %v, want DuplicateVoteError naming %s", err, q)
	}
	if !errors.Is(err, models.ErrDuplicateVote) {
		t.Errorf("errors.Is(err, ErrDuplicateVote) = false")
	}

	// Everything before the insert rolled back
	if b := budget(t, conn, surveyID); b != 20 {
		t.Errorf("budget = %d, want 20", b)
	}
	if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM participation WHERE user_id = $1`, user.ID); n != 0 {
		t.Errorf("participations = %d, want 0", n)
	}
	if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM sponsor_transaction WHERE survey_id = $1`, surveyID); n != 0 {
		t.Errorf("sponsor transactions = %d, want 0", n)
	}
}

func TestSubmitVotes_Effects(t *testing.T) {
	conn, engine := setup(t)
	ctx := context.Background()

	surveyID, questionID, optA, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{
		Sponsored:    true,
		SponsorName:  "Acme",
		RewardPoints: 25,
		RewardMoney:  7,
		Budget:       70,
	})
	user := testutil.CreateTestUser(t, conn, "effects", models.RoleUser)

	res, err := engine.SubmitVotes(ctx, surveyID, user, []models.Answer{{QuestionID: questionID, OptionID: optA}})
	if err != nil {
		t.Fatalf("SubmitVotes() error = %v", err)
	}

	if res.SurveyID != surveyID || res.RemainingBudget != 63 || res.Points != 25 || res.Level != 1 || res.StreakDays != 1 {
		t.Errorf("unexpected result: %+v", res)
	}

	if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM participation WHERE user_id = $1 AND survey_id = $2`, user.ID, surveyID); n != 1 {
		t.Errorf("participations = %d, want 1", n)
	}

	var kind string
	var amount int64
	err = conn.QueryRow(`
		SELECT m.kind, m.amount FROM wallet_movement m
		JOIN wallet w ON w.id = m.wallet_id
		WHERE w.user_id = $1
	`, user.ID).Scan(&kind, &amount)
	if err != nil {
		t.Fatalf("Failed to read wallet movement: %v", err)
	}
	if kind != models.MovementCredit || amount != 7 {
		t.Errorf("movement = %s %d, want credit 7", kind, amount)
	}

	var money, points int64
	err = conn.QueryRow(`SELECT money, points FROM sponsor_transaction WHERE survey_id = $1 AND user_id = $2`, surveyID, user.ID).Scan(&money, &points)
	if err != nil {
		t.Fatalf("Failed to read sponsor transaction: %v", err)
	}
	if money != 7 || points != 25 {
		t.Errorf("sponsor transaction = %d/%d, want 7/25", money, points)
	}

	var last string
	conn.QueryRow(`SELECT last_participation FROM public_profile WHERE user_id = $1`, user.ID).Scan(&last)
	if last != "2026-03-10" {
		t.Errorf("last_participation = %q, want 2026-03-10", last)
	}

	got := lo.Map(res.NewAchievements, func(a models.Achievement, _ int) string { return a.ID })
	if !lo.Contains(got, achievements.CodeSponsoredSurvey) || !lo.Contains(got, "participations-1") {
		t.Errorf("NewAchievements = %v, want sponsored-survey and participations-1", got)
	}
}

func TestSubmitVotes_NoWalletNoMoney(t *testing.T) {
	conn, engine := setup(t)
	ctx := context.Background()

	surveyID, questionID, optA, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{RewardMoney: 5, Budget: 50})
	user := testutil.CreateTestUser(t, conn, "walletless", models.RoleUser)
	testutil.DeleteTestWallet(t, conn, user.ID)

	res, err := engine.SubmitVotes(ctx, surveyID, user, []models.Answer{{QuestionID: questionID, OptionID: optA}})
	if err != nil {
		t.Fatalf("SubmitVotes() error = %v", err)
	}
	if res.WalletBalance != nil {
		t.Errorf("WalletBalance = %d, want nil", *res.WalletBalance)
	}
	if res.RemainingBudget != 45 {
		t.Errorf("RemainingBudget = %d, want 45", res.RemainingBudget)
	}
	if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM sponsor_transaction`); n != 0 {
		t.Errorf("unsponsored survey wrote %d sponsor transactions", n)
	}

	// Zero reward leaves budget and wallet alone
	freeID, freeQ, freeOpt, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{Budget: 20})
	other := testutil.CreateTestUser(t, conn, "free", models.RoleUser)
	res, err = engine.SubmitVotes(ctx, freeID, other, []models.Answer{{QuestionID: freeQ, OptionID: freeOpt}})
	if err != nil {
		t.Fatalf("SubmitVotes() error = %v", err)
	}
	if res.RemainingBudget != 20 || res.WalletBalance == nil || *res.WalletBalance != 0 {
		t.Errorf("unexpected result for free survey: %+v", res)
	}
	if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM wallet_movement`); n != 0 {
		t.Errorf("wallet movements = %d, want 0", n)
	}
}

func TestSubmitVotes_Streak(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name       string
		last       *string
		streak     int64
		wantStreak int64
	}{
		{"first ever", nil, 0, 1},
		{"yesterday", str("2026-03-09"), 3, 4},
		{"today already", str("2026-03-10"), 3, 3},
		{"gap of days", str("2026-03-07"), 5, 1},
		{"long ago", str("2025-12-31"), 40, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, engine := setup(t)
			surveyID, questionID, optA, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{})
			user := testutil.CreateTestUser(t, conn, "streaker", models.RoleUser)
			testutil.SetTestProfile(t, conn, user.ID, 0, tt.streak, tt.last)

			res, err := engine.SubmitVotes(context.Background(), surveyID, user, []models.Answer{{QuestionID: questionID, OptionID: optA}})
			if err != nil {
				t.Fatalf("SubmitVotes() error = %v", err)
			}
			if res.StreakDays != tt.wantStreak {
				t.Errorf("StreakDays = %d, want %d", res.StreakDays, tt.wantStreak)
			}
		})
	}
}

func TestSubmitVotes_StreakUsesConfiguredZone(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	if err != nil {
		t.Skip("timezone data unavailable")
	}

	// 03:00 UTC on the 11th is still the 10th in Bogota
	conn := testutil.SetupTestDB(t)
	if err := achievements.Seed(context.Background(), conn); err != nil {
		t.Fatal(err)
	}
	engine := NewEngine(conn,
		WithClock(func() time.Time { return time.Date(2026, 3, 11, 3, 0, 0, 0, time.UTC) }),
		WithLocation(bogota),
	)

	surveyID, questionID, optA, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{})
	user := testutil.CreateTestUser(t, conn, "zoned", models.RoleUser)
	last := "2026-03-09"
	testutil.SetTestProfile(t, conn, user.ID, 0, 2, &last)

	res, err := engine.SubmitVotes(context.Background(), surveyID, user, []models.Answer{{QuestionID: questionID, OptionID: optA}})
	if err != nil {
		t.Fatal(err)
	}
	if res.StreakDays != 3 {
		t.Errorf("StreakDays = %d, want 3", res.StreakDays)
	}
}

func TestSubmitVotes_SameDaySecondSurvey(t *testing.T) {
	conn, engine := setup(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, conn, "twice", models.RoleUser)

	for i := 0; i < 2; i++ {
		surveyID, questionID, optA, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{RewardPoints: 10})
		res, err := engine.SubmitVotes(ctx, surveyID, user, []models.Answer{{QuestionID: questionID, OptionID: optA}})
		if err != nil {
			t.Fatal(err)
		}
		if res.StreakDays != 1 {
			t.Errorf("survey %d: StreakDays = %d, want 1", i, res.StreakDays)
		}
		if res.Points != int64(10*(i+1)) {
			t.Errorf("survey %d: Points = %d, want %d", i, res.Points, 10*(i+1))
		}
	}
}

func TestSubmitVotes_HundredPointsOnce(t *testing.T) {
	conn, engine := setup(t)
	ctx := context.Background()
	user := testutil.CreateTestUser(t, conn, "hundred", models.RoleUser)
	testutil.SetTestProfile(t, conn, user.ID, 60, 0, nil)

	grants := 0
	for i := 0; i < 3; i++ {
		surveyID, questionID, optA, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{RewardPoints: 20})
		res, err := engine.SubmitVotes(ctx, surveyID, user, []models.Answer{{QuestionID: questionID, OptionID: optA}})
		if err != nil {
			t.Fatal(err)
		}
		for _, a := range res.NewAchievements {
			if a.Name == "100 puntos acumulados" {
				grants++
				if res.Points != 100 {
					t.Errorf("granted at %d points, want 100", res.Points)
				}
			}
		}
		if res.Level != models.LevelFor(res.Points) {
			t.Errorf("Level = %d, want %d", res.Level, models.LevelFor(res.Points))
		}
	}

	if grants != 1 {
		t.Errorf("100 puntos acumulados granted %d times, want 1", grants)
	}
	if n := testutil.Count(t, conn, `SELECT COUNT(*) FROM user_achievement WHERE user_id = $1 AND achievement_id = 'points-100'`, user.ID); n != 1 {
		t.Errorf("points-100 rows = %d, want 1", n)
	}
}

func TestSubmitVotes_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	conn, engine := setup(t, WithMetrics(m))
	ctx := context.Background()

	surveyID, questionID, optA, _ := oneQuestionSurvey(t, conn, testutil.SurveyOptions{RewardMoney: 4, Budget: 40})
	user := testutil.CreateTestUser(t, conn, "metered", models.RoleUser)

	if _, err := engine.SubmitVotes(ctx, surveyID, user, []models.Answer{{QuestionID: questionID, OptionID: optA}}); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.SubmitVotes(ctx, surveyID, user, []models.Answer{{QuestionID: questionID, OptionID: optA}}); err == nil {
		t.Fatal("expected duplicate")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	outcomes := map[string]float64{}
	var paid float64
	for _, f := range families {
		switch f.GetName() {
		case "voxpop_settlements_total":
			for _, metric := range f.GetMetric() {
				for _, l := range metric.GetLabel() {
					if l.GetName() == "outcome" {
						outcomes[l.GetValue()] = metric.GetCounter().GetValue()
					}
				}
			}
		case "voxpop_reward_money_paid_total":
			paid = f.GetMetric()[0].GetCounter().GetValue()
		}
	}

	if outcomes[metrics.OutcomeSettled] != 1 || outcomes[metrics.OutcomeDuplicateVote] != 1 {
		t.Errorf("outcomes = %v, want one settled and one duplicate_vote", outcomes)
	}
	if paid != 4 {
		t.Errorf("money paid = %v, want 4", paid)
	}
}
