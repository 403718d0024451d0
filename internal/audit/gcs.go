package audit

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
)

// upload writes data to gs://<bucket>/<objectName>. It assumes
// Application Default Credentials are configured.
func upload(ctx context.Context, bucket, objectName string, data []byte) error {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %q: %w", objectName, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object writer %q: %w", objectName, err)
	}

	return nil
}
