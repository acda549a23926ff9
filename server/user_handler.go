package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"sonicstream/core/auth"
	"sonicstream/logger"
	"sonicstream/repository"
)

// GetProfileHandler returns the authenticated user's profile.
func (h *APIHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userRepo.GetUserByID(userID)
	if err != nil {
		logger.Error("[Profile] Failed to load user", logger.Int64("userID", userID), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateProfileHandler updates the authenticated user's profile fields.
// Empty fields keep their stored values.
func (h *APIHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		FullName string `json:"fullName"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userRepo.UpdateProfile(userID, req.Username, req.Email, req.FullName, req.Avatar); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			http.Error(w, "Username or email already exists", http.StatusConflict)
			return
		}
		logger.Error("[Profile] Failed to update profile", logger.Int64("userID", userID), logger.ErrorField(err))
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	user, err := h.userRepo.GetUserByID(userID)
	if err != nil || user == nil {
		logger.Error("[Profile] Failed to reload user", logger.Int64("userID", userID), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// ChangePasswordHandler replaces the authenticated user's password
// after verifying the current one.
func (h *APIHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	user, err := h.userRepo.GetUserByID(userID)
	if err != nil || user == nil {
		logger.Error("[Password] Failed to load user", logger.Int64("userID", userID), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		http.Error(w, "Current password is incorrect", http.StatusUnauthorized)
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		logger.Error("[Password] Failed to hash password", logger.ErrorField(err))
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	if err := h.userRepo.UpdatePassword(userID, hashed); err != nil {
		logger.Error("[Password] Failed to update password", logger.Int64("userID", userID), logger.ErrorField(err))
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// UpgradePremiumHandler switches the authenticated account to premium.
func (h *APIHandler) UpgradePremiumHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.entitleSvc.UpgradeToPremium(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("[Premium] Account upgraded", logger.Int64("userID", userID))
	respondJSON(w, http.StatusOK, user)
}

// GetCreditsHandler reports the download-credit balance and premium
// state of the authenticated user.
func (h *APIHandler) GetCreditsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, premiumActive, err := h.entitleSvc.DownloadCredits(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"downloadCredits": user.DownloadCredits,
		"isPremium":       premiumActive,
		"role":            user.Role,
	})
}
