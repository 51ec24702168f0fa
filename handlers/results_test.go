// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/voxpop/models"
	"github.com/danielhkuo/voxpop/testutil"
)

func TestGetResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewResultsHandler(db, testutil.GetTestConfig())

	public := testutil.CreateTestSurvey(t, db, testutil.SurveyOptions{Title: "Public"})
	private := testutil.CreateTestSurvey(t, db, testutil.SurveyOptions{
		Title: "Private", Visibility: models.VisibilityPrivate,
		Sponsored: true, SponsorName: "Acme", RewardMoney: 1, Budget: 10,
	})

	voter := testutil.CreateTestUser(t, db, "Voter", models.RoleUser)
	acme := testutil.CreateTestUser(t, db, "Acme", models.RoleSponsor)
	globex := testutil.CreateTestUser(t, db, "Globex", models.RoleSponsor)
	admin := testutil.CreateTestUser(t, db, "Root", models.RoleAdmin)

	for _, id := range []string{public, private} {
		q := testutil.AddTestQuestion(t, db, id, "Q")
		yes := testutil.AddTestOption(t, db, q, "Yes")
		testutil.AddTestOption(t, db, q, "No")
		testutil.InsertTestVote(t, db, id, q, yes, voter.ID)
	}

	tests := []struct {
		name       string
		surveyID   string
		user       models.User
		wantStatus int
	}{
		{"public to voter", public, voter, http.StatusOK},
		{"private to voter", private, voter, http.StatusForbidden},
		{"private to other sponsor", private, globex, http.StatusForbidden},
		{"private to named sponsor", private, acme, http.StatusOK},
		{"private to admin", private, admin, http.StatusOK},
		{"missing survey", "nope", admin, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := asUser(testutil.MakeRequest("GET", "/surveys/"+tt.surveyID+"/results", nil, nil), tt.user.ID)
			req.SetPathValue("id", tt.surveyID)
			w := httptest.NewRecorder()
			handler.GetResults(w, req)

			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var res models.SurveyResults
			testutil.AssertJSON(t, w, &res)
			if len(res.Questions) != 1 || res.Questions[0].TotalVotes != 1 {
				t.Fatalf("Unexpected results: %+v", res)
			}
			opts := res.Questions[0].Options
			if opts[0].Percentage != 100 || opts[1].Percentage != 0 {
				t.Errorf("Unexpected percentages: %+v", opts)
			}
		})
	}
}

func TestGetTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	results := NewResultsHandler(db, testutil.GetTestConfig())
	voting := newVotingHandler(db)

	surveyID := testutil.CreateTestSurvey(t, db, testutil.SurveyOptions{
		Sponsored: true, SponsorName: "Acme", RewardPoints: 20, RewardMoney: 5, Budget: 50,
	})
	q := testutil.AddTestQuestion(t, db, surveyID, "Q")
	opt := testutil.AddTestOption(t, db, q, "A")

	acme := testutil.CreateTestUser(t, db, "Acme", models.RoleSponsor)
	for _, name := range []string{"Ana", "Beto"} {
		u := testutil.CreateTestUser(t, db, name, models.RoleUser)
		w := submit(voting, surveyID, u.ID, models.SubmitVotesRequest{Answers: []models.Answer{{QuestionID: q, OptionID: opt}}})
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	get := func(user models.User) *httptest.ResponseRecorder {
		req := asUser(testutil.MakeRequest("GET", "/surveys/"+surveyID+"/transactions", nil, nil), user.ID)
		req.SetPathValue("id", surveyID)
		w := httptest.NewRecorder()
		results.GetTransactions(w, req)
		return w
	}

	w := get(acme)
	testutil.AssertStatus(t, w, http.StatusOK)

	var ledger models.SponsorLedger
	testutil.AssertJSON(t, w, &ledger)
	if ledger.Budget != 40 || len(ledger.Transactions) != 2 {
		t.Fatalf("Unexpected ledger: %+v", ledger)
	}
	for _, tx := range ledger.Transactions {
		if tx.Money != 5 || tx.Points != 20 {
			t.Errorf("Unexpected transaction: %+v", tx)
		}
	}

	voter := testutil.CreateTestUser(t, db, "Curious", models.RoleUser)
	testutil.AssertStatus(t, get(voter), http.StatusForbidden)
}
