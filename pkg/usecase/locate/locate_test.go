package locate_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"google.golang.org/api/drive/v3"

	"github.com/k-shimizu/callbrief/pkg/usecase/locate"
)

// mockDrive answers FindFiles by substring match on the query and
// records every create.
type mockDrive struct {
	results map[string][]*drive.File

	queries        []string
	createdFolders []string
	createdDocs    []string
}

func (m *mockDrive) FindFiles(ctx context.Context, query string) ([]*drive.File, error) {
	m.queries = append(m.queries, query)
	for key, files := range m.results {
		if strings.Contains(query, key) {
			return files, nil
		}
	}
	return nil, nil
}

func (m *mockDrive) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	m.createdFolders = append(m.createdFolders, name)
	return "folder-" + name, nil
}

func (m *mockDrive) CreateDoc(ctx context.Context, name, parentID string) (string, error) {
	m.createdDocs = append(m.createdDocs, name)
	return "doc-new", nil
}

type mockLLM struct {
	response string
	prompts  []string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, maxTokens int64) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.response, nil
}

func TestFindOrCreateExistingDoc(t *testing.T) {
	dr := &mockDrive{results: map[string][]*drive.File{
		"acme corp - LLM - Summary": {{Id: "doc123", Name: "acme corp - LLM - Summary"}},
	}}
	llm := &mockLLM{}
	uc := locate.New(dr, llm, "root1")

	url, err := uc.FindOrCreate(context.Background(), "acme corp")
	gt.NoError(t, err)
	gt.Equal(t, url, "https://docs.google.com/document/d/doc123/edit")
	gt.A(t, llm.prompts).Length(0)
	gt.A(t, dr.createdDocs).Length(0)
}

func TestFindOrCreatePicksFolderViaLLM(t *testing.T) {
	dr := &mockDrive{results: map[string][]*drive.File{
		"name = 'A' and 'root1' in parents": {{Id: "letterA", Name: "A"}},
		"'letterA' in parents":              {{Id: "f1", Name: "Anvil Co"}, {Id: "f2", Name: "Acme.io"}},
	}}
	llm := &mockLLM{response: "2"}
	uc := locate.New(dr, llm, "root1")

	url, err := uc.FindOrCreate(context.Background(), "acme corp")
	gt.NoError(t, err)
	gt.Equal(t, url, "https://docs.google.com/document/d/doc-new/edit")
	gt.A(t, dr.createdFolders).Length(0)
	gt.A(t, dr.createdDocs).Length(1).Has("acme corp - LLM - Summary")

	gt.A(t, llm.prompts).Length(1)
	gt.S(t, llm.prompts[0]).Contains("1. Anvil Co").Contains("2. Acme.io")
}

func TestFindOrCreateNoMatchCreatesFolder(t *testing.T) {
	dr := &mockDrive{results: map[string][]*drive.File{
		"name = 'A' and 'root1' in parents": {{Id: "letterA", Name: "A"}},
		"'letterA' in parents":              {{Id: "f1", Name: "Anvil Co"}},
	}}
	llm := &mockLLM{response: "NONE"}
	uc := locate.New(dr, llm, "root1")

	url, err := uc.FindOrCreate(context.Background(), "acme corp")
	gt.NoError(t, err)
	gt.Equal(t, url, "https://docs.google.com/document/d/doc-new/edit")
	gt.A(t, dr.createdFolders).Length(1).Has("Acme corp")
}

func TestFindOrCreateEmptyLetterFolderSkipsLLM(t *testing.T) {
	dr := &mockDrive{results: map[string][]*drive.File{
		"name = '0-9' and 'root1' in parents": {{Id: "digits", Name: "0-9"}},
	}}
	llm := &mockLLM{response: "should not be called"}
	uc := locate.New(dr, llm, "root1")

	_, err := uc.FindOrCreate(context.Background(), "37signals")
	gt.NoError(t, err)
	gt.A(t, llm.prompts).Length(0)
	gt.A(t, dr.createdFolders).Length(1).Has("37signals")
}

func TestFindOrCreateMissingLetterFolder(t *testing.T) {
	dr := &mockDrive{}
	uc := locate.New(dr, &mockLLM{}, "root1")

	_, err := uc.FindOrCreate(context.Background(), "acme")
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("letter folder not found")
}

func TestFindOrCreateInvalidChoice(t *testing.T) {
	dr := &mockDrive{results: map[string][]*drive.File{
		"name = 'A' and 'root1' in parents": {{Id: "letterA", Name: "A"}},
		"'letterA' in parents":              {{Id: "f1", Name: "Anvil Co"}},
	}}
	llm := &mockLLM{response: "7"}
	uc := locate.New(dr, llm, "root1")

	_, err := uc.FindOrCreate(context.Background(), "acme")
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("invalid choice")
}

func TestFindLookupOnly(t *testing.T) {
	dr := &mockDrive{}
	uc := locate.New(dr, &mockLLM{}, "root1")

	url, err := uc.Find(context.Background(), "acme")
	gt.NoError(t, err)
	gt.Equal(t, url, "")
	gt.A(t, dr.createdFolders).Length(0)
	gt.A(t, dr.createdDocs).Length(0)
}
