package handlers

import (
	"context"
	"encoding/json"
	"time"

	"buitube/internal/callable"
	"buitube/internal/config"
	"buitube/internal/db"
	"buitube/internal/uploads"
	"buitube/internal/users"
	"buitube/internal/videos"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/sirupsen/logrus"
)

type ProfileWriter interface {
	Put(ctx context.Context, p users.Profile) error
}

type UserAnnouncer interface {
	UserCreated(ctx context.Context, profileJSON []byte) error
}

type VideoStore interface {
	List(ctx context.Context) ([]map[string]any, error)
	Merge(ctx context.Context, v videos.Video) error
}

type UploadSigner interface {
	UploadURL(ctx context.Context, key string) (string, error)
}

// Deps are the process-wide clients every invocation shares. They are built
// once at cold start and only read afterwards.
type Deps struct {
	Profiles  ProfileWriter
	Announcer UserAnnouncer
	Videos    VideoStore
	Signer    UploadSigner
	Now       func() time.Time
	Log       logrus.FieldLogger
	// Encode serializes profiles for logs and announcements. Defaults to json.Marshal.
	Encode func(v any) ([]byte, error)
}

type Functions struct {
	profiles  ProfileWriter
	announcer UserAnnouncer
	videos    VideoStore
	signer    UploadSigner
	now       func() time.Time
	log       logrus.FieldLogger
	encode    func(v any) ([]byte, error)
}

func New(d Deps) *Functions {
	f := &Functions{
		profiles:  d.Profiles,
		announcer: d.Announcer,
		videos:    d.Videos,
		signer:    d.Signer,
		now:       d.Now,
		log:       d.Log,
		encode:    d.Encode,
	}
	if f.now == nil {
		f.now = time.Now
	}
	if f.encode == nil {
		f.encode = json.Marshal
	}
	if f.log == nil {
		f.log = logrus.StandardLogger()
	}
	return f
}

// NewFromConfig wires the AWS-backed stores for a Lambda process.
func NewFromConfig(cfg config.Config, awsCfg aws.Config, log logrus.FieldLogger) *Functions {
	ddb := db.NewDynamoClient(awsCfg)

	var announcer UserAnnouncer
	if a := users.NewAnnouncer(sns.NewFromConfig(awsCfg), cfg.UserEventsTopicArn); a != nil {
		announcer = a
	}

	return New(Deps{
		Profiles:  users.NewStore(ddb, cfg.UsersTable),
		Announcer: announcer,
		Videos:    videos.NewStore(ddb, cfg.VideosTable),
		Signer:    uploads.NewSigner(s3.NewFromConfig(awsCfg), cfg.RawVideoBucket),
		Log:       log,
	})
}

// Routes is the callable route table. Names match what the web client calls.
func (f *Functions) Routes() map[string]callable.HandlerFunc {
	return map[string]callable.HandlerFunc{
		"generateUploadUrl":  f.GenerateUploadURL,
		"getVideos":          f.GetVideos,
		"updateVideoDetails": f.UpdateVideoDetails,
	}
}
