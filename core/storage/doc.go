// Package storage provides object storage access backed by MinIO/S3.
//
// Uploaded record files (CSV question banks) live in a single configured
// bucket. The Client interface wraps the minio SDK so feature code can be
// tested against the testify mock in the mocks subpackage.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err != nil {
//	    log.Fatal("Storage connection failed", err)
//	}
//	obj, err := client.GetObject(ctx, cfg.Storage.Bucket, "uploads/questions.csv", minio.GetObjectOptions{})
package storage
