package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"aim-achiever/internal/config"
	"aim-achiever/internal/db"
	"aim-achiever/internal/goal"
	"aim-achiever/internal/mail"
	"aim-achiever/internal/mood"
	"aim-achiever/internal/peer"

	"github.com/gin-gonic/gin"
)

func peerTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "peersecret"
	cfg.Frontend.URL = "http://localhost:3000"
	return cfg
}

// captureMail swaps the mail send seam for the duration of a test.
func captureMail(t *testing.T) *[]string {
	var sent []string
	orig := mail.Send
	mail.Send = func(m *mail.Mailer, to, subject, htmlBody string) error {
		sent = append(sent, to+"|"+subject)
		return nil
	}
	t.Cleanup(func() { mail.Send = orig })
	return &sent
}

func inviteAndAccept(t *testing.T, cfg *config.Config, requesterID, recipientID uint, recipientEmail string) {
	r := authedRouter(requesterID)
	mailer := mail.NewMailer(cfg.SMTP)
	r.POST("/peers/invite", InvitePeerHandler(cfg, mailer))
	w := httptest.NewRecorder()
	body := fmt.Sprintf(`{"email":%q}`, recipientEmail)
	req := httptest.NewRequest("POST", "/peers/invite", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("invite failed: %d: %s", w.Code, w.Body.String())
	}

	var request peer.Request
	if err := db.DB.Where("requester_id = ? AND recipient_id = ?", requesterID, recipientID).
		First(&request).Error; err != nil {
		t.Fatalf("pending request not persisted: %v", err)
	}

	r2 := authedRouter(recipientID)
	r2.POST("/peers/accept/:token", AcceptPeerHandler(cfg))
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("POST", "/peers/accept/"+request.Token, nil)
	r2.ServeHTTP(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("accept failed: %d: %s", w2.Code, w2.Body.String())
	}
}

func TestInvitePeerHandler_SendsTokenizedMail(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	cfg := peerTestConfig()
	requester := seedUser(t, "req", "req@example.com")
	recipient := seedUser(t, "rec", "rec@example.com")
	sent := captureMail(t)

	r := authedRouter(requester.ID)
	r.POST("/peers/invite", InvitePeerHandler(cfg, mail.NewMailer(cfg.SMTP)))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/peers/invite", bytes.NewReader([]byte(`{"email":"rec@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	if len(*sent) != 1 || !contains((*sent)[0], "rec@example.com") {
		t.Errorf("expected one invitation mail to the recipient, got %v", *sent)
	}
	var request peer.Request
	if err := db.DB.Where("requester_id = ?", requester.ID).First(&request).Error; err != nil {
		t.Fatalf("request not persisted: %v", err)
	}
	if request.Status != peer.StatusPending || request.RecipientID != recipient.ID || request.Token == "" {
		t.Errorf("unexpected request state: %+v", request)
	}
}

func TestInvitePeerHandler_UnknownEmail(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	cfg := peerTestConfig()
	requester := seedUser(t, "req2", "req2@example.com")
	captureMail(t)

	r := authedRouter(requester.ID)
	r.POST("/peers/invite", InvitePeerHandler(cfg, mail.NewMailer(cfg.SMTP)))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/peers/invite", bytes.NewReader([]byte(`{"email":"nobody@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown recipient, got %d: %s", w.Code, w.Body.String())
	}
}

func TestInvitePeerHandler_SelfInvite(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	cfg := peerTestConfig()
	u := seedUser(t, "narcissus", "narcissus@example.com")
	captureMail(t)

	r := authedRouter(u.ID)
	r.POST("/peers/invite", InvitePeerHandler(cfg, mail.NewMailer(cfg.SMTP)))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/peers/invite", bytes.NewReader([]byte(`{"email":"narcissus@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for self invite, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAcceptPeerHandler_WrongRecipient(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	cfg := peerTestConfig()
	requester := seedUser(t, "req3", "req3@example.com")
	recipient := seedUser(t, "rec3", "rec3@example.com")
	stranger := seedUser(t, "stranger", "stranger@example.com")
	captureMail(t)

	r := authedRouter(requester.ID)
	r.POST("/peers/invite", InvitePeerHandler(cfg, mail.NewMailer(cfg.SMTP)))
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/peers/invite", bytes.NewReader([]byte(`{"email":"rec3@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("invite failed: %d: %s", w.Code, w.Body.String())
	}
	var request peer.Request
	db.DB.Where("recipient_id = ?", recipient.ID).First(&request)

	r2 := authedRouter(stranger.ID)
	r2.POST("/peers/accept/:token", AcceptPeerHandler(cfg))
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("POST", "/peers/accept/"+request.Token, nil)
	r2.ServeHTTP(w2, req2)

	if w2.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a stranger's accept, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestPeerFlow_AcceptListCommentRemove(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	cfg := peerTestConfig()
	requester := seedUser(t, "flowreq", "flowreq@example.com")
	recipient := seedUser(t, "flowrec", "flowrec@example.com")
	captureMail(t)

	inviteAndAccept(t, cfg, requester.ID, recipient.ID, "flowrec@example.com")

	// both sides see the connection
	for _, uid := range []uint{requester.ID, recipient.ID} {
		r := authedRouter(uid)
		r.GET("/peers", ListPeersHandler())
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/peers", nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("list peers failed: %d: %s", w.Code, w.Body.String())
		}
		if !contains(w.Body.String(), "flowreq") && !contains(w.Body.String(), "flowrec") {
			t.Errorf("expected the peer in the listing, got: %s", w.Body.String())
		}
	}

	// the peer can now leave a comment
	r := authedRouter(recipient.ID)
	r.POST("/peers/:id/comments", CreateCommentHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", fmt.Sprintf("/peers/%d/comments", requester.ID),
		bytes.NewReader([]byte(`{"content":"nice streak!"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("comment failed: %d: %s", w.Code, w.Body.String())
	}

	r2 := authedRouter(requester.ID)
	r2.GET("/peers/comments", ListCommentsHandler())
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("GET", "/peers/comments", nil)
	r2.ServeHTTP(w2, req2)
	if !contains(w2.Body.String(), "nice streak!") {
		t.Errorf("expected the comment in the listing, got: %s", w2.Body.String())
	}

	// sever the connection
	r3 := authedRouter(requester.ID)
	r3.DELETE("/peers/:id", RemovePeerHandler())
	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest("DELETE", fmt.Sprintf("/peers/%d", recipient.ID), nil)
	r3.ServeHTTP(w3, req3)
	if w3.Code != http.StatusOK {
		t.Fatalf("remove peer failed: %d: %s", w3.Code, w3.Body.String())
	}

	var count int64
	db.DB.Model(&peer.Request{}).Where("status = ?", peer.StatusAccepted).Count(&count)
	if count != 0 {
		t.Errorf("expected no accepted connections left, got %d", count)
	}
}

func TestPeerGoalsHandler_ShowsConnectedPeerProgress(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	cfg := peerTestConfig()
	viewer := seedUser(t, "viewer", "viewer@example.com")
	achiever := seedUser(t, "achiever", "achiever@example.com")
	captureMail(t)
	inviteAndAccept(t, cfg, viewer.ID, achiever.ID, "achiever@example.com")

	g := goal.Goal{UserID: achiever.ID, Title: "Ship the feature", Status: goal.StatusActive,
		Priority: goal.PriorityMedium,
		Microtasks: []goal.Microtask{
			{PublicID: "peer-mt-1", Title: "Design", Day: 1, Completed: true},
			{PublicID: "peer-mt-2", Title: "Build", Day: 2},
		}}
	if err := db.DB.Create(&g).Error; err != nil {
		t.Fatalf("failed to seed goal: %v", err)
	}

	r := authedRouter(viewer.ID)
	r.GET("/peers/:id/goals", PeerGoalsHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", fmt.Sprintf("/peers/%d/goals", achiever.ID), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !contains(body, "Ship the feature") || !contains(body, "peer-mt-2") {
		t.Errorf("expected the peer's goal with microtasks, got: %s", body)
	}
	if !contains(body, `"completed":true`) {
		t.Errorf("expected microtask completion state in payload, got: %s", body)
	}
}

func TestPeerGoalsHandler_RequiresConnection(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	viewer := seedUser(t, "nosy", "nosy@example.com")
	target := seedUser(t, "private", "private@example.com")

	r := authedRouter(viewer.ID)
	r.GET("/peers/:id/goals", PeerGoalsHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", fmt.Sprintf("/peers/%d/goals", target.ID), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 without a connection, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPeerMoodsHandler_ShowsConnectedPeerMoods(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	cfg := peerTestConfig()
	viewer := seedUser(t, "moodviewer", "moodviewer@example.com")
	sharer := seedUser(t, "moodsharer", "moodsharer@example.com")
	captureMail(t)
	inviteAndAccept(t, cfg, viewer.ID, sharer.ID, "moodsharer@example.com")

	entry := mood.Entry{UserID: sharer.ID, Mood: 4, Energy: 4, Motivation: 5, Notes: "on a roll"}
	if err := db.DB.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}

	r := authedRouter(viewer.ID)
	r.GET("/peers/:id/moods", PeerMoodsHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", fmt.Sprintf("/peers/%d/moods", sharer.ID), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	if !contains(w.Body.String(), "on a roll") {
		t.Errorf("expected the peer's mood notes, got: %s", w.Body.String())
	}

	// No connection, no access.
	r2 := authedRouter(sharer.ID + viewer.ID + 1000)
	r2.GET("/peers/:id/moods", PeerMoodsHandler())
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest("GET", fmt.Sprintf("/peers/%d/moods", sharer.ID), nil)
	r2.ServeHTTP(w2, req2)
	if w2.Code != http.StatusForbidden {
		t.Errorf("expected 403 for a stranger, got %d: %s", w2.Code, w2.Body.String())
	}
}

func TestCreateCommentHandler_RequiresConnection(t *testing.T) {
	setupTestDB(t)
	resetTables(t)
	a := seedUser(t, "lonely1", "lonely1@example.com")
	b := seedUser(t, "lonely2", "lonely2@example.com")

	gin.SetMode(gin.TestMode)
	r := authedRouter(a.ID)
	r.POST("/peers/:id/comments", CreateCommentHandler())
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", fmt.Sprintf("/peers/%d/comments", b.ID),
		bytes.NewReader([]byte(`{"content":"hello?"}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 without a connection, got %d: %s", w.Code, w.Body.String())
	}
}
