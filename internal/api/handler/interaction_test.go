package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squirrelip/squirrel_server/internal/model"
	"github.com/squirrelip/squirrel_server/internal/model/dto"
	"github.com/squirrelip/squirrel_server/internal/testutil"
)

func toggleBody(from, to *model.User, patent *model.Patent) dto.ToggleInteractionRequest {
	return dto.ToggleInteractionRequest{
		From:          from.Party(),
		To:            to.Party(),
		PatentDetails: patent.Snapshot(),
	}
}

func TestInteractionHandler_WishlistAddedThenRemoved(t *testing.T) {
	env := setupEnv(t)
	owner := testutil.TestUser(t, env.db)
	buyer := testutil.TestUser(t, env.db)
	patent := testutil.TestPatent(t, env.db, owner)
	token := tokenFor(t, buyer)

	w := performRequest(env.router, "POST", "/interaction/wishlist", toggleBody(buyer, owner, patent), token)
	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Wishlist added successfully", resp.Message)

	var rec model.Interaction
	decodeData(t, resp, &rec)
	assert.True(t, rec.Flag)
	assert.Equal(t, model.KindWishlist, rec.Kind)
	assert.Equal(t, buyer.UserID, rec.From.UserID)
	assert.Equal(t, owner.UserID, rec.To.UserID)
	assert.Equal(t, patent.PatentID, rec.PatentDetails.PatentID)

	w = performRequest(env.router, "POST", "/interaction/wishlist", toggleBody(buyer, owner, patent), token)
	resp = parseResponse(t, w)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Wishlist removed successfully", resp.Message)
	decodeData(t, resp, &rec)
	assert.False(t, rec.Flag)

	var count int64
	env.db.Model(&model.Interaction{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestInteractionHandler_EnquiryStaysActive(t *testing.T) {
	env := setupEnv(t)
	owner := testutil.TestUser(t, env.db)
	buyer := testutil.TestUser(t, env.db)
	patent := testutil.TestPatent(t, env.db, owner)
	token := tokenFor(t, buyer)

	for i := 0; i < 2; i++ {
		w := performRequest(env.router, "POST", "/interaction/enquiry", toggleBody(buyer, owner, patent), token)
		resp := parseResponse(t, w)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "Enquiry added successfully", resp.Message)
	}

	// only the first call created the enquiry
	assert.Len(t, env.notifier.Enquiries, 1)
}

func TestInteractionHandler_ToggleRejects(t *testing.T) {
	env := setupEnv(t)
	owner := testutil.TestUser(t, env.db)
	buyer := testutil.TestUser(t, env.db)
	patent := testutil.TestPatent(t, env.db, owner)

	w := performRequest(env.router, "POST", "/interaction/wishlist", toggleBody(buyer, owner, patent), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(env.router, "POST", "/interaction/wishlist", toggleBody(buyer, owner, patent), tokenFor(t, owner))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(env.router, "POST", "/interaction/wishlist", toggleBody(owner, owner, patent), tokenFor(t, owner))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := toggleBody(buyer, owner, patent)
	body.PatentDetails.PatentID = ""
	w = performRequest(env.router, "POST", "/interaction/impression", body, tokenFor(t, buyer))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	env.db.Model(&model.Interaction{}).Count(&count)
	assert.Zero(t, count)
}

func TestInteractionHandler_Views(t *testing.T) {
	env := setupEnv(t)
	owner := testutil.TestUser(t, env.db)
	buyer := testutil.TestUser(t, env.db)
	p1 := testutil.TestPatent(t, env.db, owner)
	p2 := testutil.TestPatent(t, env.db, owner)
	testutil.TestInteraction(t, env.db, model.KindWishlist, buyer, owner, p1)
	testutil.TestInteraction(t, env.db, model.KindWishlist, buyer, owner, p2, testutil.Inactive())
	testutil.TestInteraction(t, env.db, model.KindImpression, buyer, owner, p2)

	ids := func(path string, user *model.User) []string {
		t.Helper()
		w := performRequest(env.router, "GET", path, nil, tokenFor(t, user))
		require.Equal(t, http.StatusOK, w.Code)
		var out []string
		decodeData(t, parseResponse(t, w), &out)
		return out
	}

	assert.Equal(t, []string{p1.PatentID}, ids("/interaction/wishlist", buyer))
	assert.Equal(t, []string{p2.PatentID}, ids("/interaction/impression", buyer))
	assert.Empty(t, ids("/interaction/enquiry", buyer))
	assert.Empty(t, ids("/interaction/wishlist", owner))

	assert.Equal(t, []string{p1.PatentID}, ids("/interaction/received-wishlist", owner))
	assert.Equal(t, []string{p2.PatentID}, ids("/interaction/received-impression", owner))
	assert.Empty(t, ids("/interaction/received-wishlist", buyer))

	w := performRequest(env.router, "GET", "/interaction/received-summary", nil, tokenFor(t, owner))
	require.Equal(t, http.StatusOK, w.Code)
	var summary dto.ReceivedSummary
	decodeData(t, parseResponse(t, w), &summary)
	assert.Equal(t, []string{p1.PatentID}, summary.Wishlist)
	assert.Empty(t, summary.Enquiry)
	assert.Equal(t, []string{p2.PatentID}, summary.Impression)

	w = performRequest(env.router, "GET", "/interaction/received-wishlist", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
