// Package locate finds or creates an account's summaries document
// inside the letter-bucketed folder hierarchy.
package locate

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/drive/v3"

	"github.com/k-shimizu/callbrief/pkg/adapter"
	"github.com/k-shimizu/callbrief/pkg/utils/logging"
)

//go:embed prompt/pickfolder.md
var pickFolderPromptRaw string

var pickFolderPromptTmpl = template.Must(template.New("pickfolder").Parse(pickFolderPromptRaw))

const pickFolderMaxTokens = 10

type UseCase struct {
	drive adapter.Drive
	llm   adapter.LLM

	rootFolderID string
}

func New(drive adapter.Drive, llm adapter.LLM, rootFolderID string) *UseCase {
	return &UseCase{drive: drive, llm: llm, rootFolderID: rootFolderID}
}

// DocTitle is the exact title of an account's summaries document.
func DocTitle(account string) string {
	return account + " - LLM - Summary"
}

// DocURL builds the durable document location from its id.
func DocURL(docID string) string {
	return "https://docs.google.com/document/d/" + docID + "/edit"
}

// letterBucket is the name of the letter folder an account belongs
// in: its first character uppercased, or "0-9" for digits.
func letterBucket(account string) string {
	first := []rune(account)[0]
	if unicode.IsDigit(first) {
		return "0-9"
	}
	return strings.ToUpper(string(first))
}

// capitalize upcases only the first rune, preserving the rest of the
// account's own casing.
func capitalize(s string) string {
	r := []rune(s)
	if len(r) <= 1 {
		return strings.ToUpper(s)
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// quoteQuery escapes single quotes for use in a drive search query.
func quoteQuery(s string) string {
	return strings.ReplaceAll(s, `'`, `\'`)
}

// Find returns the URL of an existing summaries document, or "" when
// none exists. It never creates anything.
func (uc *UseCase) Find(ctx context.Context, account string) (string, error) {
	title := DocTitle(account)
	query := fmt.Sprintf("name = '%s' and mimeType='%s'", quoteQuery(title), adapter.MimeTypeDocument)

	files, err := uc.drive.FindFiles(ctx, query)
	if err != nil {
		return "", goerr.Wrap(err, "failed to search for document", goerr.V("title", title))
	}
	if len(files) == 0 {
		return "", nil
	}
	return DocURL(files[0].Id), nil
}

// FindOrCreate returns the URL of the account's summaries document,
// creating the account folder and the document when absent. Folder
// names drift from account names (dots, spacing, casing), so when the
// letter folder is non-empty the match is delegated to the LLM.
func (uc *UseCase) FindOrCreate(ctx context.Context, account string) (string, error) {
	if account == "" {
		return "", goerr.New("account name is empty")
	}
	logger := logging.From(ctx)

	if url, err := uc.Find(ctx, account); err != nil {
		return "", err
	} else if url != "" {
		logger.Info("found existing document", "account", account, "url", url)
		return url, nil
	}

	letter := letterBucket(account)
	letterQuery := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType='%s'",
		quoteQuery(letter), uc.rootFolderID, adapter.MimeTypeFolder)
	letterFolders, err := uc.drive.FindFiles(ctx, letterQuery)
	if err != nil {
		return "", goerr.Wrap(err, "failed to find letter folder", goerr.V("letter", letter))
	}
	if len(letterFolders) == 0 {
		return "", goerr.New("letter folder not found under accounts root",
			goerr.V("letter", letter), goerr.V("root_folder_id", uc.rootFolderID))
	}
	letterFolderID := letterFolders[0].Id

	folderQuery := fmt.Sprintf("'%s' in parents and mimeType='%s'",
		letterFolderID, adapter.MimeTypeFolder)
	folders, err := uc.drive.FindFiles(ctx, folderQuery)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list account folders", goerr.V("letter", letter))
	}

	accountFolderID, err := uc.pickFolder(ctx, account, letter, letterFolderID, folders)
	if err != nil {
		return "", err
	}

	docID, err := uc.drive.CreateDoc(ctx, DocTitle(account), accountFolderID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create document", goerr.V("account", account))
	}

	url := DocURL(docID)
	logger.Info("created document", "account", account, "url", url)
	return url, nil
}

func (uc *UseCase) pickFolder(ctx context.Context, account, letter, letterFolderID string, folders []*drive.File) (string, error) {
	logger := logging.From(ctx)

	if len(folders) == 0 {
		return uc.createAccountFolder(ctx, account, letterFolderID)
	}

	lines := make([]string, 0, len(folders))
	for i, f := range folders {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, f.Name))
	}

	var buf bytes.Buffer
	err := pickFolderPromptTmpl.Execute(&buf, map[string]any{
		"Account": account,
		"Letter":  letter,
		"Folders": strings.Join(lines, "\n"),
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to render folder prompt")
	}

	choice, err := uc.llm.Generate(ctx, buf.String(), pickFolderMaxTokens)
	if err != nil {
		return "", goerr.Wrap(err, "folder match request failed", goerr.V("account", account))
	}
	choice = strings.ToUpper(strings.TrimSpace(choice))

	if choice == "NONE" {
		logger.Info("no matching folder, creating one", "account", account, "letter", letter)
		return uc.createAccountFolder(ctx, account, letterFolderID)
	}

	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(folders) {
		return "", goerr.New("folder match returned invalid choice",
			goerr.V("choice", choice), goerr.V("folders", len(folders)))
	}

	logger.Info("matched account folder", "account", account, "folder", folders[idx-1].Name)
	return folders[idx-1].Id, nil
}

func (uc *UseCase) createAccountFolder(ctx context.Context, account, letterFolderID string) (string, error) {
	name := capitalize(account)
	id, err := uc.drive.CreateFolder(ctx, name, letterFolderID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create account folder", goerr.V("name", name))
	}
	return id, nil
}
