package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/craftctl-project/craftctl/internal/db"
	"github.com/craftctl-project/craftctl/internal/modrinth"
)

const (
	modsDir     = "mods"
	cacheDBFile = ".craftctl/cache.db"
	searchLimit = 15
)

// ModsSearch queries Modrinth and prints matching mods.
func (a *App) ModsSearch(ctx context.Context, query string, gameVersions []string) error {
	client := modrinth.NewClient()
	results, err := client.Search(ctx, query, modrinth.SearchOptions{
		Loaders:      []string{loaderName},
		GameVersions: gameVersions,
		Limit:        searchLimit,
	})
	if err != nil {
		return err
	}

	if len(results.Hits) == 0 {
		fmt.Println("No mods found.")
		return nil
	}

	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Slug", "Title", "Downloads", "Description"})
	tw.SetBorder(true)
	tw.SetAutoWrapText(false)

	for _, hit := range results.Hits {
		desc := hit.Description
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		tw.Append([]string{hit.Slug, hit.Title, fmt.Sprintf("%d", hit.Downloads), desc})
	}
	tw.Render()
	fmt.Printf("%d of %d results. Install with 'craftctl mods add <slug>'.\n", len(results.Hits), results.TotalHits)
	return nil
}

// ModsAdd resolves a compatible version of slug, downloads it into mods/,
// and records it in mc.toml.
func (a *App) ModsAdd(ctx context.Context, slug, wantVersion string) error {
	project, err := a.loadProject()
	if err != nil {
		return err
	}

	client := modrinth.NewClient()
	versions, err := client.Versions(ctx, slug)
	if err != nil {
		return err
	}

	var picked modrinth.Version
	if wantVersion != "" {
		found := false
		for _, v := range versions {
			if v.Number() == wantVersion {
				picked, found = v, true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s has no version %q", slug, wantVersion)
		}
		if !picked.SupportsLoader(loaderName) || !picked.SupportsGameVersion(project.Versions.MCVersion) {
			return fmt.Errorf("%s %s does not support Minecraft %s on %s",
				slug, wantVersion, project.Versions.MCVersion, loaderName)
		}
	} else {
		var ok bool
		picked, ok = modrinth.ResolveVersion(versions, project.Versions.MCVersion, loaderName)
		if !ok {
			return fmt.Errorf("%s has no version compatible with Minecraft %s on %s",
				slug, project.Versions.MCVersion, loaderName)
		}
	}

	file, ok := picked.PrimaryFile()
	if !ok {
		return fmt.Errorf("%s %s has no downloadable file", slug, picked.Number())
	}

	if err := os.MkdirAll(a.projectPath(modsDir), 0755); err != nil {
		return fmt.Errorf("failed to create mods directory: %w", err)
	}

	// Deterministic filename so remove and update never have to guess.
	dest := a.modJarPath(slug)
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if err := client.Download(ctx, file.URL, out); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to finish writing %s: %w", dest, err)
	}

	project.Mods[slug] = picked.Number()
	if err := project.Save(); err != nil {
		return err
	}

	if cache, database := a.openCache(); cache != nil {
		cache.Put(db.CachedVersion{
			Slug:        slug,
			GameVersion: project.Versions.MCVersion,
			Loader:      loaderName,
			VersionID:   picked.ID,
			VersionNum:  picked.Number(),
			FileURL:     file.URL,
			Filename:    file.Filename,
		})
		database.Close()
	}

	fmt.Printf("Installed %s %s\n", slug, picked.Number())
	return nil
}

// ModsRemove deletes a mod's jar and its mc.toml entry.
func (a *App) ModsRemove(slug string) error {
	project, err := a.loadProject()
	if err != nil {
		return err
	}

	if _, ok := project.Mods[slug]; !ok {
		return fmt.Errorf("%s is not installed", slug)
	}

	if err := os.Remove(a.modJarPath(slug)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove mod jar: %w", err)
	}

	delete(project.Mods, slug)
	if err := project.Save(); err != nil {
		return err
	}

	if cache, database := a.openCache(); cache != nil {
		cache.Invalidate(slug)
		database.Close()
	}

	fmt.Printf("Removed %s\n", slug)
	return nil
}

// ModsList prints installed mods with the latest compatible version for
// each, using the local cache to avoid repeated API lookups.
func (a *App) ModsList(ctx context.Context) error {
	project, err := a.loadProject()
	if err != nil {
		return err
	}

	if len(project.Mods) == 0 {
		fmt.Println("No mods installed.")
		return nil
	}

	slugs := make([]string, 0, len(project.Mods))
	for slug := range project.Mods {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	cache, database := a.openCache()
	if database != nil {
		defer database.Close()
	}
	client := modrinth.NewClient()

	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"Mod", "Installed", "Latest"})
	tw.SetBorder(true)

	for _, slug := range slugs {
		latest := "?"
		if v, err := a.resolveLatest(ctx, client, cache, slug, project.Versions.MCVersion); err == nil {
			latest = v.VersionNum
		} else {
			a.logger.Warn().Err(err).Str("mod", slug).Msg("latest version lookup failed")
		}
		tw.Append([]string{slug, project.Mods[slug], latest})
	}
	tw.Render()
	return nil
}

// ModsUpdate re-resolves every installed mod and downloads any newer
// compatible version.
func (a *App) ModsUpdate(ctx context.Context) error {
	project, err := a.loadProject()
	if err != nil {
		return err
	}

	if len(project.Mods) == 0 {
		fmt.Println("No mods installed.")
		return nil
	}

	slugs := make([]string, 0, len(project.Mods))
	for slug := range project.Mods {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	client := modrinth.NewClient()
	updated := 0

	for _, slug := range slugs {
		versions, err := client.Versions(ctx, slug)
		if err != nil {
			a.logger.Warn().Err(err).Str("mod", slug).Msg("update check failed")
			continue
		}
		latest, ok := modrinth.ResolveVersion(versions, project.Versions.MCVersion, loaderName)
		if !ok || latest.Number() == project.Mods[slug] {
			continue
		}
		file, ok := latest.PrimaryFile()
		if !ok {
			continue
		}

		dest := a.modJarPath(slug)
		out, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", dest, err)
		}
		if err := client.Download(ctx, file.URL, out); err != nil {
			out.Close()
			return err
		}
		out.Close()

		fmt.Printf("Updated %s %s -> %s\n", slug, project.Mods[slug], latest.Number())
		project.Mods[slug] = latest.Number()
		updated++
	}

	if updated > 0 {
		if err := project.Save(); err != nil {
			return err
		}
	}
	fmt.Printf("%d mod(s) updated.\n", updated)
	return nil
}

func (a *App) modJarPath(slug string) string {
	return a.projectPath(filepath.Join(modsDir, slug+".jar"))
}

// openCache opens the local version cache. Cache failures are logged and
// tolerated, the caller just falls back to the API.
func (a *App) openCache() (*db.VersionCache, *db.Database) {
	database, err := db.NewDatabase(a.projectPath(cacheDBFile))
	if err != nil {
		a.logger.Warn().Err(err).Msg("version cache unavailable")
		return nil, nil
	}
	cache, err := db.NewVersionCache(database, db.DefaultCacheTTL)
	if err != nil {
		a.logger.Warn().Err(err).Msg("version cache unavailable")
		database.Close()
		return nil, nil
	}
	return cache, database
}

func (a *App) resolveLatest(ctx context.Context, client *modrinth.Client, cache *db.VersionCache, slug, gameVersion string) (db.CachedVersion, error) {
	if cache != nil {
		if v, ok, err := cache.Get(slug, gameVersion, loaderName); err == nil && ok {
			return v, nil
		}
	}

	versions, err := client.Versions(ctx, slug)
	if err != nil {
		return db.CachedVersion{}, err
	}
	latest, ok := modrinth.ResolveVersion(versions, gameVersion, loaderName)
	if !ok {
		return db.CachedVersion{}, fmt.Errorf("no compatible version of %s for %s", slug, gameVersion)
	}

	entry := db.CachedVersion{
		Slug:        slug,
		GameVersion: gameVersion,
		Loader:      loaderName,
		VersionID:   latest.ID,
		VersionNum:  latest.Number(),
	}
	if file, ok := latest.PrimaryFile(); ok {
		entry.FileURL = file.URL
		entry.Filename = file.Filename
	}
	if cache != nil {
		cache.Put(entry)
	}
	return entry, nil
}
