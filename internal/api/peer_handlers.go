package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"aim-achiever/internal/auth"
	"aim-achiever/internal/config"
	"aim-achiever/internal/db"
	"aim-achiever/internal/goal"
	"aim-achiever/internal/mail"
	"aim-achiever/internal/mood"
	"aim-achiever/internal/peer"
	"aim-achiever/internal/user"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// peerConnected reports whether an accepted request links the two users in
// either direction.
func peerConnected(a, b uint) bool {
	var count int64
	db.DB.Model(&peer.Request{}).
		Where("status = ? AND ((requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?))",
			peer.StatusAccepted, a, b, b, a).
		Count(&count)
	return count > 0
}

// POST /peers/invite — create a pending request and mail the accept link
func InvitePeerHandler(cfg *config.Config, mailer *mail.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing email"})
			return
		}

		var recipient user.User
		if err := db.DB.Where("email = ?", strings.TrimSpace(req.Email)).
			First(&recipient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no user with that email"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up user"})
			return
		}
		if recipient.ID == userID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot invite yourself"})
			return
		}
		if peerConnected(userID, recipient.ID) {
			c.JSON(http.StatusConflict, gin.H{"error": "already connected with this user"})
			return
		}
		var pending int64
		db.DB.Model(&peer.Request{}).
			Where("requester_id = ? AND recipient_id = ? AND status = ?", userID, recipient.ID, peer.StatusPending).
			Count(&pending)
		if pending > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "invitation already pending"})
			return
		}

		token, err := auth.GenerateInviteToken(cfg.Server.JWTSecret, userID, recipient.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invitation"})
			return
		}
		request := peer.Request{
			RequesterID: userID,
			RecipientID: recipient.ID,
			Token:       token,
			Status:      peer.StatusPending,
		}
		if err := db.DB.Create(&request).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invitation"})
			return
		}

		acceptURL := fmt.Sprintf("%s/peers/accept?token=%s", strings.TrimRight(cfg.Frontend.URL, "/"), token)
		if err := mailer.SendPeerInvitation(recipient.Email, acceptURL); err != nil {
			log.Printf("[Peer] invitation mail to %s failed: %v", recipient.Email, err)
		}
		c.JSON(http.StatusCreated, gin.H{"id": request.ID, "status": request.Status})
	}
}

// POST /peers/accept/:token — flip the matching pending request to accepted.
// The caller must be the invited user.
func AcceptPeerHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token := c.Param("token")
		claims, err := auth.ParseInviteToken(cfg.Server.JWTSecret, token)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired invitation"})
			return
		}
		if claims.RecipientID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "this invitation was not addressed to you"})
			return
		}

		var request peer.Request
		if err := db.DB.Where("token = ? AND status = ?", token, peer.StatusPending).
			First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found or already used"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up invitation"})
			return
		}
		request.Status = peer.StatusAccepted
		if err := db.DB.Save(&request).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to accept invitation"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": request.ID, "status": request.Status})
	}
}

func peerProfiles(userIDs []uint) []gin.H {
	profiles := make([]gin.H, 0, len(userIDs))
	if len(userIDs) == 0 {
		return profiles
	}
	var users []user.User
	db.DB.Where("id IN ?", userIDs).Find(&users)
	for _, u := range users {
		profiles = append(profiles, gin.H{
			"id":       u.ID,
			"username": u.Username,
			"name":     u.Name,
			"xp":       u.XP,
			"level":    u.Level,
			"streak":   u.Streak,
		})
	}
	return profiles
}

// GET /peers — accepted connections in either direction
func ListPeersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var requests []peer.Request
		if err := db.DB.Where("status = ? AND (requester_id = ? OR recipient_id = ?)",
			peer.StatusAccepted, userID, userID).Find(&requests).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch peers"})
			return
		}
		ids := make([]uint, 0, len(requests))
		for _, r := range requests {
			other := r.RequesterID
			if other == userID {
				other = r.RecipientID
			}
			ids = append(ids, other)
		}
		c.JSON(http.StatusOK, gin.H{"peers": peerProfiles(ids)})
	}
}

// GET /peers/pending — invitations waiting on the caller's answer
func PendingInvitationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var requests []peer.Request
		if err := db.DB.Where("recipient_id = ? AND status = ?", userID, peer.StatusPending).
			Find(&requests).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invitations"})
			return
		}
		ids := make([]uint, 0, len(requests))
		for _, r := range requests {
			ids = append(ids, r.RequesterID)
		}
		c.JSON(http.StatusOK, gin.H{"invitations": peerProfiles(ids)})
	}
}

// DELETE /peers/:id — sever the connection with the given user
func RemovePeerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		otherID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
			return
		}
		res := db.DB.Where("status = ? AND ((requester_id = ? AND recipient_id = ?) OR (requester_id = ? AND recipient_id = ?))",
			peer.StatusAccepted, userID, otherID, otherID, userID).
			Delete(&peer.Request{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove peer"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "peer connection not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": true})
	}
}

// GET /peers/:id/goals — a connected peer's goals with microtask progress
func PeerGoalsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		peerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
			return
		}
		if !peerConnected(userID, uint(peerID)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not connected with this user"})
			return
		}
		var goals []goal.Goal
		if err := db.DB.
			Preload("Microtasks", func(db *gorm.DB) *gorm.DB { return db.Order("day asc") }).
			Where("user_id = ?", peerID).
			Order("created_at desc").
			Find(&goals).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch peer goals"})
			return
		}
		c.JSON(http.StatusOK, goals)
	}
}

// GET /peers/:id/moods — a connected peer's mood check-ins
func PeerMoodsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		peerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
			return
		}
		if !peerConnected(userID, uint(peerID)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not connected with this user"})
			return
		}
		var entries []mood.Entry
		if err := db.DB.Where("user_id = ?", peerID).
			Order("date desc").Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch peer moods"})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

// POST /peers/:id/comments — leave a note on a connected peer
func CreateCommentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid peer id"})
			return
		}
		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing comment content"})
			return
		}
		if !peerConnected(userID, uint(targetID)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not connected with this user"})
			return
		}
		comment := peer.Comment{
			AuthorID: userID,
			TargetID: uint(targetID),
			Content:  strings.TrimSpace(req.Content),
		}
		if err := db.DB.Create(&comment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save comment"})
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

// GET /peers/comments — comments peers have left on the caller
func ListCommentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var comments []peer.Comment
		if err := db.DB.Where("target_id = ?", userID).
			Order("created_at desc").Find(&comments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch comments"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"comments": comments})
	}
}
