package stores

import (
	"genmock-studio/core"
	"genmock-studio/stores/aws"
	"genmock-studio/stores/filesystem"
	"genmock-studio/stores/memory"
	"genmock-studio/stores/sqlite"
	"os"

	"github.com/sirupsen/logrus"
)

// GetKV selects the key-value backend from the STORAGE_TYPE environment
// variable; the in-memory backend is the default.
func GetKV() core.KV {
	storageType := os.Getenv("STORAGE_TYPE")
	var kv core.KV

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	switch storageType {
	case "filesystem":
		basePath := os.Getenv("LOCAL_STORAGE_PATH")
		if basePath == "" {
			basePath = "./data" // Default path
		}
		storageField["basePath"] = basePath
		kv = filesystem.NewKV(basePath)
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		if dataSourceName == "" {
			dataSourceName = "genmock.db" // Default filename
		}
		storageField["dataSourceName"] = dataSourceName
		kv = sqlite.NewKV(dataSourceName)
	case "s3":
		bucketName := os.Getenv("S3_BUCKET_NAME")
		if bucketName == "" {
			logrus.Fatal("S3_BUCKET_NAME environment variable must be set for s3 storage type")
		}
		storageField["bucketName"] = bucketName
		kv = aws.NewKV(bucketName)
	default:
		kv = memory.NewKV()
		storageField["storageType"] = "in-memory"
	}
	logrus.WithFields(storageField).Info("Use storage")
	return kv
}
