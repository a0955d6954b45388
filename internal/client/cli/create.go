package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/dkolesni/timecapsule/internal/client/services"
)

// unlockDateLayouts are the accepted forms for the unlock date prompt.
var unlockDateLayouts = []string{"2006-01-02", "2006-01-02 15:04", time.RFC3339}

func parseUnlockDate(s string) (time.Time, error) {
	for _, layout := range unlockDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, use YYYY-MM-DD", s)
}

func loadAttachment(path string) (services.FileUpload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return services.FileUpload{}, err
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	return services.FileUpload{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Data:     data,
	}, nil
}

func (a *App) create(ctx context.Context) {
	if !a.isLoggedIn() {
		printlnFn("Please login first")
		return
	}

	title, err := GetSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	content, err := GetMultiline(a.reader, "Enter message to your future self", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	dateText, err := GetSimpleText(a.reader, "Enter unlock date (YYYY-MM-DD)", os.Stdout)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	unlockDate, err := parseUnlockDate(dateText)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	var files []services.FileUpload
	for {
		path, err := GetSimpleText(a.reader, "Attach a file (empty to continue)", os.Stdout)
		if err != nil {
			printlnFn(err.Error())
			return
		}
		if path == "" {
			break
		}
		upload, err := loadAttachment(path)
		if err != nil {
			printlnFn(err.Error())
			continue
		}
		files = append(files, upload)
	}

	id, err := a.store.Create(ctx, title, content, unlockDate, files)
	if err != nil {
		printlnFn(err.Error())
		if id == "" {
			return
		}
	}
	printlnFn("Capsule sealed:", id)
}
