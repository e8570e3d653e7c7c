package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"creatorhome/internal/activity"
	"creatorhome/internal/github"
	"creatorhome/internal/icon"
	"creatorhome/internal/manifest"
)

// BumpRequest changes the PWA manifest. A non-empty Name syncs name and short_name.
type BumpRequest struct {
	Name       string `json:"name,omitempty"`
	ShortName  string `json:"short_name,omitempty"`
	ThemeColor string `json:"theme_color,omitempty"`
}

// CommittedFile is one file written to the repository.
type CommittedFile struct {
	Path      string `json:"path"`
	SHA       string `json:"sha"`
	CommitSHA string `json:"commit_sha,omitempty"`
	Size      int    `json:"size"`
}

// ManifestResult reports a manifest commit.
type ManifestResult struct {
	CommittedFile
	OldVersion  string `json:"old_version"`
	NewVersion  string `json:"new_version"`
	NameChanged bool   `json:"name_changed"`
}

// IconResult reports the icons written and, when the manifest exists, its update.
type IconResult struct {
	Icons    []CommittedFile `json:"icons"`
	Manifest *ManifestResult `json:"manifest,omitempty"`
}

// AssetService publishes the fan app's icons and manifest.
type AssetService interface {
	// UploadIcon renders src at every icon size and commits each PNG.
	UploadIcon(ctx context.Context, token string, src []byte) (*IconResult, error)

	// BumpManifest increments the manifest version and applies req.
	BumpManifest(ctx context.Context, token string, req BumpRequest) (*ManifestResult, error)
}

// AssetOptions wires an AssetService.
type AssetOptions struct {
	GitHub        github.Contents
	Activity      *activity.Log
	ManifestPath  string
	IconDir       string
	CommitMessage string
}

type assetService struct {
	committer
	manifestPath string
	iconDir      string
	message      string
}

// NewAssetService constructs a new AssetService.
func NewAssetService(opts AssetOptions) AssetService {
	if opts.Activity == nil {
		opts.Activity = activity.New(activity.DefaultSize, nil)
	}
	if opts.CommitMessage == "" {
		opts.CommitMessage = "update fan app assets via creator dashboard"
	}
	return &assetService{
		committer:    committer{gh: opts.GitHub, log: opts.Activity},
		manifestPath: opts.ManifestPath,
		iconDir:      strings.TrimSuffix(opts.IconDir, "/"),
		message:      opts.CommitMessage,
	}
}

func (s *assetService) UploadIcon(ctx context.Context, token string, src []byte) (*IconResult, error) {
	if token == "" {
		return nil, s.fail(nil, ErrTokenRequired)
	}
	if len(src) == 0 {
		return nil, s.fail(nil, ErrImageRequired)
	}

	ctx, span := tracer.Start(ctx, "AssetService.UploadIcon")
	defer span.End()

	s.log.Info("Resizing icon (%d bytes)…", len(src))
	renditions, err := icon.Render(src, icon.Sizes)
	if err != nil {
		return nil, s.fail(span, err)
	}

	out := &IconResult{}
	icons := make([]manifest.Icon, 0, len(renditions))
	for _, r := range renditions {
		p := path.Join(s.iconDir, r.Name)
		res, err := s.commit(ctx, token, p, fmt.Sprintf("%s (%s)", s.message, r.Name), r.PNG, "")
		if err != nil {
			return nil, s.fail(span, err)
		}
		s.log.Info("Icon %s committed. New sha: %s", r.Name, short(res.ContentSHA))
		out.Icons = append(out.Icons, CommittedFile{Path: p, SHA: res.ContentSHA, CommitSHA: res.CommitSHA, Size: len(r.PNG)})
		icons = append(icons, manifest.Icon{
			Src:     s.iconSrc(r.Name),
			Sizes:   fmt.Sprintf("%dx%d", r.Size, r.Size),
			Type:    "image/png",
			Purpose: "any maskable",
		})
	}
	span.SetAttributes(attribute.Int("icon.count", len(out.Icons)))

	m, err := s.patchManifest(ctx, token, manifest.Patch{BumpVersion: true, Icons: icons})
	switch {
	case err == nil:
		out.Manifest = m
	case errors.Is(err, ErrNotFound):
		s.log.Info("%s not found; icons uploaded without a manifest update.", s.manifestPath)
	default:
		return nil, s.fail(span, err)
	}
	return out, nil
}

func (s *assetService) BumpManifest(ctx context.Context, token string, req BumpRequest) (*ManifestResult, error) {
	if token == "" {
		return nil, s.fail(nil, ErrTokenRequired)
	}

	ctx, span := tracer.Start(ctx, "AssetService.BumpManifest")
	defer span.End()

	res, err := s.patchManifest(ctx, token, manifest.Patch{
		BumpVersion: true,
		Name:        req.Name,
		ShortName:   req.ShortName,
		ThemeColor:  req.ThemeColor,
	})
	if err != nil {
		return nil, s.fail(span, err)
	}
	return res, nil
}

func (s *assetService) patchManifest(ctx context.Context, token string, p manifest.Patch) (*ManifestResult, error) {
	s.log.Info("Loading %s…", s.manifestPath)
	f, err := s.gh.GetFile(ctx, token, s.manifestPath)
	if errors.Is(err, github.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.manifestPath)
	}
	if err != nil {
		return nil, err
	}

	patched, err := manifest.Apply(f.Content, p)
	if err != nil {
		return nil, err
	}
	if patched.NameChanged {
		s.log.Info("Identity sync: manifest name set to %q.", p.Name)
	}

	msg := fmt.Sprintf("%s (manifest %s)", s.message, patched.NewVersion)
	res, err := s.commit(ctx, token, s.manifestPath, msg, patched.JSON, f.SHA)
	if err != nil {
		return nil, err
	}
	s.log.Info("Manifest version %s → %s. New sha: %s", orNone(patched.OldVersion), patched.NewVersion, short(res.ContentSHA))

	return &ManifestResult{
		CommittedFile: CommittedFile{
			Path:      s.manifestPath,
			SHA:       res.ContentSHA,
			CommitSHA: res.CommitSHA,
			Size:      len(patched.JSON),
		},
		OldVersion:  patched.OldVersion,
		NewVersion:  patched.NewVersion,
		NameChanged: patched.NameChanged,
	}, nil
}

// iconSrc is the icon URL relative to the manifest, the way browsers resolve it.
func (s *assetService) iconSrc(name string) string {
	dir := path.Dir(s.manifestPath)
	full := path.Join(s.iconDir, name)
	if dir == "." {
		return full
	}
	if rel, ok := strings.CutPrefix(full, dir+"/"); ok {
		return rel
	}
	return "/" + full
}

func orNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
