package engine

import "testing"

// These tables are grounded directly on the reference test suite shipped
// alongside the specification this engine implements: every (command,
// decision) pair here is a real case that suite checks by invoking the
// engine's own hook binary and looking for the literal substring
// `"permissionDecision": "allow"` in its stdout.

func TestDecideSafeCommands(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"grep foo file.txt", true},
		{"find . -name '*.rb'", true},
		{"cat /etc/hosts", true},
		{"jq '.key' file.json", true},
		{"base64 -d", true},
		{"xxd some/file", true},
		{"pgrep -l ruby", true},
		{"getconf PAGE_SIZE", true},
		{"ls -la", true},
		{"wc -l file.txt", true},
		{"env", true},
		{"rm -rf /", false},
		{"curl https://example.com", false},
		{"ruby script.rb", false},
		{"python3 script.py", false},
		{"node app.js", false},
	}
	runCases(t, cases)
}

func TestDecidePipesAndChains(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"grep foo file.txt | head -5", true},
		{"cat file | sort | uniq", true},
		{"find . -name '*.rb' | wc -l", true},
		{"cat file | rm -rf /", false},
		{"grep foo | curl https://evil.com", false},
		{"ls && echo done", true},
		{"ls; echo done", true},
		{"git log | head -5", true},
		{"git log && git status", true},
	}
	runCases(t, cases)
}

func TestDecideShBashC(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{`bash -c "grep foo file"`, true},
		{`bash -c "cat file | head -5"`, true},
		{`bash -c "rm file"`, false},
		{`sh -c "ls -la"`, true},
		{`sh -c "curl https://evil.com"`, false},
		{"bash script.sh", false},
	}
	runCases(t, cases)
}

func TestDecideXargs(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"xargs grep pattern", true},
		{"xargs cat", true},
		{"xargs ls", true},
		{"xargs -I {} cat {}", true},
		{"xargs rm", false},
		{"xargs curl", false},
		{"xargs -0 grep foo", true},
		{"xargs npx @herb-tools/linter", true},
		{"xargs npx cowsay", false},
	}
	runCases(t, cases)
}

func TestDecideGH(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"gh pr view 123", true},
		{"gh pr list", true},
		{"gh pr diff 123", true},
		{"gh pr checks 123", true},
		{"gh issue view 456", true},
		{"gh issue list", true},
		{"gh run view 789", true},
		{"gh release list", true},
		{"gh api repos/o/r/pulls/1", true},
		{"gh api repos/o/r/contents/f --jq '.content'", true},
		{"gh api repos/o/r/pulls -X GET", true},
		{"gh api repos/o/r/pulls --paginate", true},
		{"gh pr create --title test", false},
		{"gh pr merge 123", false},
		{"gh api repos/o/r/pulls/1 -X PATCH -f body=x", false},
		{"gh api repos/o/r/pulls/1 -X POST", false},
		{"gh api repos/o/r/issues -f title=x", false},
		{"gh api repos/o/r/pulls/1 --method=PATCH", false},
		{"gh auth login", false},
		{"gh", false},
		{"gh run list", true},
		{"gh release view v1.2.3", true},
		{"gh repo view", true},
		{"gh search code x", true},
		{"gh auth status", true},
		{"gh issue diff 1", true},
		{"gh --version", true},
		{"gh help", true},
		{"gh repo create foo", false},
		{"gh search", false},
	}
	runCases(t, cases)
}

func TestDecideGit(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"git log --oneline -5", true},
		{"git diff --stat", true},
		{"git show HEAD:some/file.rb", true},
		{"git status --porcelain", true},
		{"git fetch origin master", true},
		{"git ls-tree HEAD", true},
		{"git grep pattern", true},
		{"git rev-parse HEAD", true},
		{"git merge-base master HEAD", true},
		{"git merge-tree HEAD~1 HEAD master", true},
		{"git --version", true},
		{"git help log", true},
		{"git shortlog -s", true},
		{"git describe --tags", true},
		{"git blame file.rb", true},
		{"git reflog", true},
		{"git -C /some/repo diff --stat", true},
		{"git -C /some/repo -C nested log", true},
		{"git remote -v", true},
		{"git remote get-url origin", true},
		{"git remote show origin", true},
		{"git remote", true},
		{"git push origin main", false},
		{"git reset --hard HEAD~1", false},
		{"git add .", false},
		{"git commit -m 'test'", false},
		{"git checkout -- file.rb", false},
		{"git rebase origin/master", false},
		{"git stash", false},
		{"git branch -D feature", false},
		{"git rm file.rb", false},
		{"git remote add upstream https://github.com/foo/bar", false},
		{"git remote remove upstream", false},
		{"git remote rename origin upstream", false},
		{"git -c user.name=foo log", false},
		{"git", false},
		{"git ls-files", true},
		{"git rev-list HEAD", true},
		{"git cat-file -p HEAD", true},
		{"git --help", true},
		{"git branch", true},
		{"git branch --list", true},
		{"git branch -a", false},
		{"git tag", true},
		{"git tag --list", true},
		{"git config user.name", true},
		{"git config --get user.name", true},
		{"git branch new-feature", false},
		{"git branch -D old-feature", false},
		{"git tag v1.0.0", false},
		{"git tag -d v1.0.0", false},
		{"git config --add user.name foo", false},
		{"git config --unset user.name", false},
	}
	runCases(t, cases)
}

func TestDecideJJ(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"jj log", true},
		{"jj diff --stat", true},
		{"jj show abc123", true},
		{"jj status", true},
		{"jj st", true},
		{"jj help", true},
		{"jj --version", true},
		{"jj op log", true},
		{"jj file show some/path", true},
		{"jj config get user.name", true},
		{"jj new master", false},
		{"jj edit abc123", false},
		{"jj squash", false},
		{"jj describe -m 'test'", false},
		{"jj bookmark set my-branch", false},
		{"jj git push", false},
		{"jj git fetch", false},
		{"jj rebase -d master", false},
		{"jj restore file.rb", false},
		{"jj abandon", false},
		{"jj config set user.name foo", false},
		{"jj", false},
		{"jj evolog", true},
		{"jj interdiff -f abc -t def", true},
	}
	runCases(t, cases)
}

func TestDecidePackageManagers(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"yarn list --depth=0", true},
		{"yarn info react", true},
		{"yarn why lodash", true},
		{"yarn --version", true},
		{"yarn test", true},
		{"yarn test:watch", true},
		{"yarn test --testPathPattern=Foo", true},
		{"yarn -v", true},
		{"yarn run test", true},
		{"yarn run test:watch", true},
		{"yarn run build", false},
		{"yarn install", false},
		{"yarn add react", false},
		{"yarn remove lodash", false},
		{"yarn upgrade", false},
		{"npm view react version", true},
		{"npm info lodash", true},
		{"npm ls", true},
		{"npm list", true},
		{"npm search foo", true},
		{"npm ping", true},
		{"npm whoami", true},
		{"npm outdated", true},
		{"npm --version", true},
		{"npm help", true},
		{"npm install react", false},
		{"npm uninstall lodash", false},
		{"npm run build", false},
		{"bundle list", true},
		{"bundle info rails", true},
		{"bundle show actionpack", true},
		{"bundle check", true},
		{"bundle exec rspec spec/models/foo_spec.rb", true},
		{"bundle exec standardrb app/models/foo.rb", true},
		{"bundle exec standardrb --fix app/models/foo.rb", true},
		{"bundle exec cucumber", true},
		{"bundle exec brakeman", true},
		{"bundle exec erb_lint app/views/foo.html.erb", true},
		{"bundle exec herb app/views/foo.html.erb", true},
		{"bundle exec rubocop app/models/foo.rb", true},
		{"bundle exec steep check", true},
		{"bundle exec sorbet tc", true},
		{"bundle exec srb tc", true},
		{"bundle install", false},
		{"bundle update", false},
		{"bundle exec rails console", false},
		{"bundle exec rake db:drop", false},
		{"bundle exec ruby script.rb", false},
		{"bundle exec srb rbi", false},
		{"mise ls", true},
		{"mise list ruby", true},
		{"mise current ruby", true},
		{"mise which ruby", true},
		{"mise doctor", true},
		{"mise --version", true},
		{"mise settings get experimental", true},
		{"mise env", true},
		{"mise help", true},
		{"mise install ruby@3.4", false},
		{"mise exec -- ruby foo.rb", false},
		{"mise use ruby@3.4", false},
		{"asdf current ruby", true},
		{"asdf which ruby", true},
		{"asdf help", true},
		{"asdf list ruby", true},
		{"asdf --version", true},
		{"asdf info", true},
		{"asdf plugin list", true},
		{"asdf install ruby 3.4", false},
		{"asdf plugin add ruby", false},
		{"gem list", true},
		{"gem info rails", true},
		{"gem environment", true},
		{"gem env", true},
		{"gem which bundler", true},
		{"gem pristine --all", true},
		{"gem --version", true},
		{"gem help", true},
		{"gem contents rails", true},
		{"gem specification rails", true},
		{"gem install rails", false},
		{"gem uninstall rails", false},
		{"brew list", true},
		{"brew info node", true},
		{"brew --version", true},
		{"brew help", true},
		{"brew config", true},
		{"brew doctor", true},
		{"brew deps node", true},
		{"brew desc node", true},
		{"brew home node", true},
		{"brew install node", false},
		{"brew uninstall node", false},
		{"brew services list", false},
		{"cargo clippy -- -D warnings", true},
		{"cargo test", true},
		{"cargo build --release", true},
		{"cargo check", true},
		{"cargo doc", true},
		{"cargo search serde", true},
		{"cargo --version", true},
		{"cargo bench", true},
		{"cargo fmt", true},
		{"cargo tree", true},
		{"cargo metadata", true},
		{"cargo install --path .", false},
		{"cargo run", false},
		{"cargo clean", false},
	}
	runCases(t, cases)
}

func TestDecideTimeoutAndTime(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"timeout 120 bundle exec rspec", true},
		{"timeout 30 git log --oneline", true},
		{"timeout -s KILL 60 bundle exec rspec", true},
		{"timeout --preserve-status 120 git status", true},
		{"timeout 120 git push origin main", false},
		{"timeout 60 rm -rf /", false},
		{"time bundle exec rspec", true},
		{"time git log --oneline -5", true},
		{"time git push", false},
		{"time rm file", false},
	}
	runCases(t, cases)
}

func TestDecideNpx(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"npx @herb-tools/linter app/views/foo.html.erb", true},
		{"npx eslint src/", true},
		{"npx karma start", true},
		{"npx --yes eslint src/", true},
		{"npx -y @herb-tools/linter .", true},
		{"npx --package @herb-tools/linter @herb-tools/linter .", true},
		{"npx -- eslint src/", true},
		{"npx prettier --check .", true},
		{"npx tsc --noEmit", true},
		{"npx stylelint src/**/*.css", true},
		{"npx jest", true},
		{"npx -p prettier prettier --check .", true},
		{"npx --no-install eslint src/", true},
		{"npx react-scripts start", false},
		{"npx cowsay hello", false},
		{"npx", false},
		{"npx --yes", false},
		{"npx -p cowsay cowsay hello", false},
	}
	runCases(t, cases)
}

func TestDecideEnvPrefix(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"RACK_ENV=test bundle exec rspec spec/foo_spec.rb", true},
		{"RAILS_ENV=test bundle exec rspec", true},
		{"RACK_ENV=test rm -rf /", false},
	}
	runCases(t, cases)
}

func TestDecideCompoundPipelines(t *testing.T) {
	cases := []struct {
		cmd   string
		allow bool
	}{
		{"git log --oneline -20 | head -5", true},
		{"git show HEAD:file.rb | grep pattern", true},
		{"gh api repos/o/r/contents/f --jq .content | base64 -d | head -50", true},
		{"timeout 120 bundle exec rspec && git status", true},
		{"time bundle exec rspec | tail -5", true},
		{"git -C /some/repo log --oneline | head -3", true},
		{"xxd file | head -20", true},
	}
	runCases(t, cases)
}

func TestDecideIdempotent(t *testing.T) {
	cmd := "git log --oneline -5 | head -3"
	d1 := Decide(cmd)
	d2 := Decide(cmd)
	if d1.Allow != d2.Allow {
		t.Fatalf("Decide is not idempotent: %v vs %v", d1, d2)
	}
}

func runCases(t *testing.T, cases []struct {
	cmd   string
	allow bool
}) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.cmd, func(t *testing.T) {
			d := Decide(tc.cmd)
			if d.Allow != tc.allow {
				t.Errorf("Decide(%q).Allow = %v, want %v (reason: %s)", tc.cmd, d.Allow, tc.allow, d.Reason)
			}
		})
	}
}

func TestEngineStats(t *testing.T) {
	e := New()
	e.Decide("git log")
	e.Decide("rm -rf /")
	e.Decide("git status")

	stats := e.Stats()
	if stats.Total != 3 {
		t.Fatalf("Total = %d, want 3", stats.Total)
	}
	if stats.Allow != 2 {
		t.Fatalf("Allow = %d, want 2", stats.Allow)
	}
	if stats.Deny != 1 {
		t.Fatalf("Deny = %d, want 1", stats.Deny)
	}
}

func TestEngineCacheServesRepeatedCommand(t *testing.T) {
	e := New(WithCache(8))

	first := e.Decide("git status")
	second := e.Decide("git status")

	if first.Allow != second.Allow || first.Reason != second.Reason {
		t.Fatalf("cached decision diverged: %v vs %v", first, second)
	}
	// Both calls still count toward stats even though the second is served
	// from cache — the cache saves re-classification work, not bookkeeping.
	if stats := e.Stats(); stats.Total != 2 {
		t.Fatalf("Total = %d, want 2", stats.Total)
	}
}

func TestEngineWithoutCacheStillWorks(t *testing.T) {
	e := New()
	d := e.Decide("git log")
	if !d.Allow {
		t.Fatalf("expected git log to be allowed, got deny: %s", d.Reason)
	}
}
