// Package publish commits the generated site onto a pages branch and
// pushes it, replacing the ghp-import + git push pair the site used
// to run.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// ErrNotARepository is returned when the blog directory is not a git
// repository.
var ErrNotARepository = errors.New("not a git repository")

// Options configure one publish run.
type Options struct {
	// RepoPath is the blog repository root (default ".").
	RepoPath string
	// SiteDir is the generated output to publish.
	SiteDir string
	// Remote and Branch name the publish target (origin / gh-pages).
	Remote string
	Branch string
	// CNAME, when set, is written as a CNAME file at the site root.
	CNAME string
	// Token authenticates HTTPS pushes; empty relies on ambient
	// credentials (ssh agent, credential helper via url rewrite).
	Token string
	// Message overrides the default commit message.
	Message string
	// NoPush builds the commit but skips the network.
	NoPush bool
	// Author identity for the publish commit.
	AuthorName  string
	AuthorEmail string
	// Now fixes the commit timestamp; zero means time.Now.
	Now time.Time
}

// Run snapshots SiteDir as a commit on the pages branch and pushes it.
//
// The commit is assembled directly from plumbing objects: the source
// branch's working tree and index are never touched, and the pages
// branch history is the usual ghp-import shape (each commit's parent
// is the previous pages head, or none for the first publish).
func Run(ctx context.Context, opts Options) (plumbing.Hash, error) {
	if opts.RepoPath == "" {
		opts.RepoPath = "."
	}
	if opts.Remote == "" {
		opts.Remote = "origin"
	}
	if opts.Branch == "" {
		opts.Branch = "gh-pages"
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Message == "" {
		opts.Message = "Publish site " + opts.Now.Format("2006-01-02 15:04")
	}
	if opts.AuthorName == "" {
		opts.AuthorName = "blogsmith"
	}
	if opts.AuthorEmail == "" {
		opts.AuthorEmail = "blogsmith@localhost"
	}

	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return plumbing.ZeroHash, fmt.Errorf("%w: %s", ErrNotARepository, opts.RepoPath)
		}
		return plumbing.ZeroHash, err
	}

	treeHash, err := snapshotTree(repo, opts.SiteDir, opts.CNAME)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("snapshot site: %w", err)
	}

	branchRef := plumbing.NewBranchReferenceName(opts.Branch)
	var parents []plumbing.Hash
	if ref, err := repo.Reference(branchRef, true); err == nil {
		parents = append(parents, ref.Hash())

		// Skip the commit entirely when nothing changed.
		if prev, err := repo.CommitObject(ref.Hash()); err == nil && prev.TreeHash == treeHash {
			slog.Info("site unchanged since last publish", slog.String("commit", ref.Hash().String()[:8]))
			if opts.NoPush {
				return ref.Hash(), nil
			}
			return ref.Hash(), push(ctx, repo, opts)
		}
	}

	commitHash, err := writeCommit(repo, treeHash, parents, opts)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	if err := repo.Storer.SetReference(plumbing.NewHashReference(branchRef, commitHash)); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("update %s: %w", branchRef, err)
	}
	slog.Info("publish commit created",
		slog.String("branch", opts.Branch),
		slog.String("commit", commitHash.String()[:8]))

	if opts.NoPush {
		return commitHash, nil
	}
	return commitHash, push(ctx, repo, opts)
}

// snapshotTree stores every file under siteDir as blobs and returns
// the hash of the resulting root tree.
func snapshotTree(repo *git.Repository, siteDir, cname string) (plumbing.Hash, error) {
	if st, err := os.Stat(siteDir); err != nil || !st.IsDir() {
		return plumbing.ZeroHash, fmt.Errorf("site directory not found: %s", siteDir)
	}

	files := map[string]plumbing.Hash{}
	err := filepath.WalkDir(siteDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(siteDir, p)
		if err != nil {
			return err
		}
		hash, err := writeBlobFromFile(repo, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = hash
		return nil
	})
	if err != nil {
		return plumbing.ZeroHash, err
	}

	if cname != "" {
		hash, err := writeBlob(repo, []byte(cname+"\n"))
		if err != nil {
			return plumbing.ZeroHash, err
		}
		files["CNAME"] = hash
	}
	if len(files) == 0 {
		return plumbing.ZeroHash, errors.New("site directory is empty")
	}

	return writeTree(repo, files, "")
}

// writeTree recursively builds tree objects for one directory level.
// files maps slash paths to blob hashes; prefix is the level's path.
func writeTree(repo *git.Repository, files map[string]plumbing.Hash, prefix string) (plumbing.Hash, error) {
	entriesByName := map[string]object.TreeEntry{}
	dirs := map[string]bool{}

	for p, hash := range files {
		if prefix != "" {
			if !strings.HasPrefix(p, prefix+"/") {
				continue
			}
			p = p[len(prefix)+1:]
		}
		name, _, nested := strings.Cut(p, "/")
		if nested {
			dirs[name] = true
			continue
		}
		entriesByName[name] = object.TreeEntry{Name: name, Mode: filemode.Regular, Hash: hash}
	}

	for name := range dirs {
		sub := name
		if prefix != "" {
			sub = prefix + "/" + name
		}
		hash, err := writeTree(repo, files, sub)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entriesByName[name] = object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: hash}
	}

	entries := make([]object.TreeEntry, 0, len(entriesByName))
	for _, e := range entriesByName {
		entries = append(entries, e)
	}
	// Git orders tree entries bytewise with directories compared as
	// if their name ended in "/".
	sort.Slice(entries, func(i, j int) bool {
		return treeSortKey(entries[i]) < treeSortKey(entries[j])
	})

	tree := &object.Tree{Entries: entries}
	obj := repo.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return repo.Storer.SetEncodedObject(obj)
}

func treeSortKey(e object.TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}
	return e.Name
}

func writeBlobFromFile(repo *git.Repository, path string) (plumbing.Hash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return writeBlob(repo, data)
}

func writeBlob(repo *git.Repository, data []byte) (plumbing.Hash, error) {
	obj := repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, err
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, err
	}
	return repo.Storer.SetEncodedObject(obj)
}

func writeCommit(repo *git.Repository, tree plumbing.Hash, parents []plumbing.Hash, opts Options) (plumbing.Hash, error) {
	sig := object.Signature{Name: opts.AuthorName, Email: opts.AuthorEmail, When: opts.Now}
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      opts.Message + "\n",
		TreeHash:     tree,
		ParentHashes: parents,
	}
	obj := repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return repo.Storer.SetEncodedObject(obj)
}

func push(ctx context.Context, repo *git.Repository, opts Options) error {
	refspec := gitcfg.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", opts.Branch, opts.Branch))
	pushOpts := &git.PushOptions{
		RemoteName: opts.Remote,
		RefSpecs:   []gitcfg.RefSpec{refspec},
		Force:      false,
	}
	if opts.Token != "" {
		pushOpts.Auth = &http.BasicAuth{Username: "x-access-token", Password: opts.Token}
	}

	slog.Info("pushing pages branch", slog.String("remote", opts.Remote), slog.String("branch", opts.Branch))
	err := repo.PushContext(ctx, pushOpts)
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Info("remote already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("push %s to %s: %w", opts.Branch, opts.Remote, err)
	}
	return nil
}
