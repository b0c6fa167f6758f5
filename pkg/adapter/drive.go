package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	MimeTypeFolder   = "application/vnd.google-apps.folder"
	MimeTypeDocument = "application/vnd.google-apps.document"
)

// Drive is the folder-hierarchy client used for name-based lookup and
// create-if-absent of folders and documents.
type Drive interface {
	FindFiles(ctx context.Context, query string) ([]*drive.File, error)
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	CreateDoc(ctx context.Context, name, parentID string) (string, error)
}

type driveClient struct {
	svc *drive.Service
}

func NewDrive(ctx context.Context, credentialsFile string) (Drive, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create drive service")
	}

	return &driveClient{svc: svc}, nil
}

func (c *driveClient) FindFiles(ctx context.Context, query string) ([]*drive.File, error) {
	res, err := c.svc.Files.List().
		Q(query).
		Fields("files(id, name)").
		Corpora("allDrives").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list files", goerr.V("query", query))
	}

	return res.Files, nil
}

func (c *driveClient) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	return c.create(ctx, name, MimeTypeFolder, parentID)
}

func (c *driveClient) CreateDoc(ctx context.Context, name, parentID string) (string, error) {
	return c.create(ctx, name, MimeTypeDocument, parentID)
}

func (c *driveClient) create(ctx context.Context, name, mimeType, parentID string) (string, error) {
	file, err := c.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{parentID},
	}).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", goerr.Wrap(err, "failed to create file",
			goerr.V("name", name), goerr.V("mime_type", mimeType))
	}

	return file.Id, nil
}
