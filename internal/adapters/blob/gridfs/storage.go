package gridfs

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pet-adoption-marketplace/internal/ports/blob"
)

const bucketName = "pet_images"

// Storage guarda las imágenes en GridFS; la key es el _id del archivo.
type Storage struct {
	bucket *gridfs.Bucket
}

func New(db *mongo.Database) (*Storage, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, err
	}
	return &Storage{bucket: bucket}, nil
}

type fileMeta struct {
	ContentType string `bson:"contentType"`
}

type fileDoc struct {
	Metadata fileMeta `bson:"metadata"`
}

func (s *Storage) Put(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(filename)))

	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	stream, err := s.bucket.OpenUploadStreamWithID(key, filename, opts)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(stream, r); err != nil {
		_ = stream.Abort()
		return "", err
	}
	if err := stream.Close(); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	cur, err := s.bucket.FindContext(ctx, bson.M{"_id": key})
	if err != nil {
		return nil, "", err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, "", err
		}
		return nil, "", blob.ErrNotFound
	}
	var doc fileDoc
	if err := cur.Decode(&doc); err != nil {
		return nil, "", err
	}

	stream, err := s.bucket.OpenDownloadStream(key)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, "", blob.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return stream, doc.Metadata.ContentType, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	err := s.bucket.DeleteContext(ctx, key)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return blob.ErrNotFound
	}
	return err
}
