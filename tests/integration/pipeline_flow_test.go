package integration

import (
	"fmt"
	"math"
	"net/http"
	"testing"

	"wavz/internal/insightiq"
)

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestPipelineFlow_ConnectSyncScore(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "pipeline@test.com", "password123")

	// Step 1: Connect a YouTube account
	accountID := app.connectAccount(t, token, "youtube", "yt-channel-1")

	// Step 2: Provider serves 10 videos totalling 100 likes, 20 comments,
	// 5000 views
	items := make([]insightiq.ContentItem, 10)
	for i := range items {
		items[i] = insightiq.ContentItem{ViewCount: 500, LikeCount: 10, CommentCount: 2}
	}
	app.Insight.content = items
	app.Insight.profile = insightiq.Profile{AccountID: "yt-channel-1", Username: "creator", FollowerCount: 4321}

	// Step 3: Sync the account through the pipeline
	rec := app.request("POST", fmt.Sprintf("/api/v1/accounts/%s/sync", accountID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("sync failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	sync := result["sync"].(map[string]interface{})
	// base 800 = 100*2 + 20*5 + 5000*0.1; awarded 667 after quality and weight
	if !floatClose(sync["c_points_awarded"].(float64), 667) {
		t.Errorf("expected 667 cPoints awarded, got %v", sync["c_points_awarded"])
	}
	// one fresh history entry: 667 * timeWeight 1.0 * youtube 1.3
	if !floatClose(sync["total_sparks"].(float64), 667*1.3) {
		t.Errorf("expected %v sparks, got %v", 667*1.3, sync["total_sparks"])
	}
	if sync["content_count"].(float64) != 10 {
		t.Errorf("expected content count 10, got %v", sync["content_count"])
	}
	delta := sync["delta"].(map[string]interface{})
	if delta["views"].(float64) != 5000 {
		t.Errorf("expected delta views 5000, got %v", delta["views"])
	}
	if sync["snapshot_id"].(string) == "" {
		t.Error("expected a snapshot ID")
	}

	// Step 4: Profile reflects the aggregates
	rec = app.request("GET", "/api/v1/profile", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile failed: %d %s", rec.Code, rec.Body.String())
	}
	profile := parseJSON(t, rec)["profile"].(map[string]interface{})
	if !floatClose(profile["c_points"].(float64), 667) {
		t.Errorf("expected profile cPoints 667, got %v", profile["c_points"])
	}
	if !floatClose(profile["sparks"].(float64), 667*1.3) {
		t.Errorf("expected profile sparks %v, got %v", 667*1.3, profile["sparks"])
	}
	if profile["level"].(float64) != 1 {
		t.Errorf("expected level 1, got %v", profile["level"])
	}

	// Step 5: Account bookkeeping was touched
	rec = app.request("GET", fmt.Sprintf("/api/v1/accounts/%s", accountID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get account failed: %d %s", rec.Code, rec.Body.String())
	}
	account := parseJSON(t, rec)["account"].(map[string]interface{})
	if account["sync_count"].(float64) != 1 {
		t.Errorf("expected sync count 1, got %v", account["sync_count"])
	}
	if account["follower_count"].(float64) != 4321 {
		t.Errorf("expected follower count 4321, got %v", account["follower_count"])
	}

	// Step 6: One snapshot row with the full totals
	rec = app.request("GET", fmt.Sprintf("/api/v1/accounts/%s/snapshots", accountID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshots failed: %d %s", rec.Code, rec.Body.String())
	}
	snaps := parseJSON(t, rec)
	if snaps["total_items"].(float64) != 1 {
		t.Fatalf("expected 1 snapshot, got %v", snaps["total_items"])
	}
	snap := snaps["data"].([]interface{})[0].(map[string]interface{})
	if snap["snapshot"].(map[string]interface{})["views"].(float64) != 5000 {
		t.Errorf("expected snapshot views 5000, got %v", snap["snapshot"])
	}

	// Step 7: cPoints history and score ledger record the run
	rec = app.request("GET", "/api/v1/cpoints", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("cpoints failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["total_items"].(float64) != 1 {
		t.Error("expected 1 cPoints history row")
	}

	rec = app.request("GET", "/api/v1/ledger", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("ledger failed: %d %s", rec.Code, rec.Body.String())
	}
	if parseJSON(t, rec)["total_items"].(float64) != 2 {
		t.Error("expected cpoints and sparks ledger entries")
	}
}

func TestPipelineFlow_SecondSyncScoresOnlyTheDelta(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "delta@test.com", "password123")
	accountID := app.connectAccount(t, token, "youtube", "yt-channel-2")

	app.Insight.content = []insightiq.ContentItem{{ViewCount: 1000, LikeCount: 50, CommentCount: 10}}
	rec := app.request("POST", fmt.Sprintf("/api/v1/accounts/%s/sync", accountID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("first sync failed: %d %s", rec.Code, rec.Body.String())
	}
	firstAwarded := parseJSON(t, rec)["sync"].(map[string]interface{})["c_points_awarded"].(float64)

	// Counters grew by 30 likes and 1000 views since the last snapshot.
	app.Insight.content = []insightiq.ContentItem{{ViewCount: 2000, LikeCount: 80, CommentCount: 10}}
	rec = app.request("POST", fmt.Sprintf("/api/v1/accounts/%s/sync", accountID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("second sync failed: %d %s", rec.Code, rec.Body.String())
	}
	sync := parseJSON(t, rec)["sync"].(map[string]interface{})
	delta := sync["delta"].(map[string]interface{})
	if delta["likes"].(float64) != 30 {
		t.Errorf("expected delta likes 30, got %v", delta["likes"])
	}
	if delta["views"].(float64) != 1000 {
		t.Errorf("expected delta views 1000, got %v", delta["views"])
	}
	if delta["comments"].(float64) != 0 {
		t.Errorf("expected delta comments 0, got %v", delta["comments"])
	}

	// Both syncs hit the same daily window, so the second rescores the
	// accumulated 80/10/2000 and tops the award up over the first one.
	if sync["c_points_awarded"].(float64) <= firstAwarded {
		t.Errorf("expected award to grow from %v, got %v", firstAwarded, sync["c_points_awarded"])
	}

	rec = app.request("GET", "/api/v1/cpoints", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("cpoints failed: %d %s", rec.Code, rec.Body.String())
	}
	history := parseJSON(t, rec)
	if history["total_items"].(float64) != 1 {
		t.Fatalf("expected 1 cPoints history row, got %v", history["total_items"])
	}
	raw := history["data"].([]interface{})[0].(map[string]interface{})["raw_engagement"].(map[string]interface{})
	if raw["likes"].(float64) != 80 || raw["views"].(float64) != 2000 {
		t.Errorf("expected accumulated raw engagement 80/2000, got %v/%v", raw["likes"], raw["views"])
	}

	rec = app.request("GET", "/api/v1/profile", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile failed: %d %s", rec.Code, rec.Body.String())
	}
	profile := parseJSON(t, rec)["profile"].(map[string]interface{})
	if !floatClose(profile["c_points"].(float64), sync["c_points_awarded"].(float64)) {
		t.Errorf("expected profile cPoints %v, got %v", sync["c_points_awarded"], profile["c_points"])
	}
}

func TestPipelineFlow_SchedulerSweep(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "sweep@test.com", "password123")
	app.connectAccount(t, token, "youtube", "yt-channel-3")

	app.Insight.content = []insightiq.ContentItem{{ViewCount: 1000, LikeCount: 20, CommentCount: 5}}

	// Wrong key is rejected before any work happens.
	rec := app.requestWithAPIKey("POST", "/api/v1/internal/sync", "", "wrong-key")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong API key, got %d", rec.Code)
	}

	rec = app.requestWithAPIKey("POST", "/api/v1/internal/sync", "", testSyncAPIKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("sweep failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["accounts_total"].(float64) != 1 {
		t.Errorf("expected 1 account in sweep, got %v", result["accounts_total"])
	}
	if result["accounts_synced"].(float64) != 1 {
		t.Errorf("expected 1 synced account, got %v", result["accounts_synced"])
	}
}
