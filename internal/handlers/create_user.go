package handlers

import (
	"context"
	"strings"

	"buitube/internal/logging"
	"buitube/internal/users"

	"github.com/aws/aws-lambda-go/events"
)

const triggerConfirmSignUp = "PostConfirmation_ConfirmSignUp"

// CreateUser is the Cognito PostConfirmation trigger. It never returns an
// error: failing here would block the sign-up, so failures only reach the logs.
func (f *Functions) CreateUser(ctx context.Context, ev events.CognitoEventUserPoolsPostConfirmation) (events.CognitoEventUserPoolsPostConfirmation, error) {
	log := logging.FromContext(ctx, f.log).WithField("trigger", ev.TriggerSource)

	// The same trigger also fires after a forgotten-password reset.
	if ev.TriggerSource != "" && ev.TriggerSource != triggerConfirmSignUp {
		log.Debug("not a sign-up confirmation, skipping")
		return ev, nil
	}

	attrs := ev.Request.UserAttributes
	uid := strings.TrimSpace(attrs["sub"])
	if uid == "" {
		uid = strings.TrimSpace(ev.UserName)
	}
	if uid == "" {
		log.Error("post confirmation event without sub or userName")
		return ev, nil
	}

	profile := users.NewProfile(uid, attrs["email"], attrs["picture"])
	log = log.WithField("uid", uid)

	b, encErr := f.encode(profile)
	if encErr != nil {
		log.WithError(encErr).Warn("encode profile failed")
	} else {
		log = log.WithField("profile", string(b))
	}

	if err := f.profiles.Put(ctx, profile); err != nil {
		log.WithError(err).Error("create user failed")
		return ev, nil
	}
	log.Info("user created")

	// The announcement body is the encoded profile; without it there is nothing to send.
	if f.announcer != nil && encErr == nil {
		if err := f.announcer.UserCreated(ctx, b); err != nil {
			log.WithError(err).Warn("announce user created failed")
		}
	}
	return ev, nil
}
