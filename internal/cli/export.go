package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rlourenco/bicicletario/internal/export"
	"github.com/rlourenco/bicicletario/internal/filex"
	"github.com/rlourenco/bicicletario/internal/register"
)

// Export renders the working date's view as a CSV or a tabular report:
// export csv|report [s3]. Without "s3" the artifact is written next to the
// entries file as register-<date>.<ext>; with it, it is uploaded to the
// configured bucket.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 || (len(args) == 2 && args[1] != "s3") {
		return a.report(ctx, usageErr("export csv|report [s3]"))
	}
	format := args[0]
	toS3 := len(args) == 2

	if err := a.session.Require(register.ModuleRegister, register.ActionView); err != nil {
		return a.report(ctx, err)
	}

	view, err := a.projector.Project(ctx, a.day, a.filter)
	if err != nil {
		return a.report(ctx, err)
	}

	var buf bytes.Buffer
	var ext, contentType string
	switch format {
	case "csv":
		ext, contentType = "csv", "text/csv"
		err = export.WriteCSV(&buf, view)
	case "report":
		ext, contentType = "txt", "text/plain"
		var icons map[string]string
		icons, err = a.master.LoadCategories(ctx)
		if err == nil {
			err = export.WriteReport(&buf, view, icons)
		}
	default:
		return a.report(ctx, usageErr("export csv|report [s3]"))
	}
	if err != nil {
		return a.report(ctx, err)
	}

	if toS3 {
		day, err := time.ParseInLocation(dateLayout, a.day, time.Local)
		if err != nil {
			return a.report(ctx, err)
		}
		key, err := a.uploader.Upload(ctx, export.StorageKey(day, ext), contentType, &buf)
		if err != nil {
			return a.report(ctx, err)
		}
		fmt.Fprintf(os.Stdout, "Uploaded %s to bucket %s.\n", key, a.config.S3Bucket)
		return nil
	}

	path := fmt.Sprintf("register-%s.%s", a.day, ext)
	if err := filex.WriteFileAtomic(path, buf.Bytes(), 0o660); err != nil {
		return a.report(ctx, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s.\n", path)
	return nil
}
