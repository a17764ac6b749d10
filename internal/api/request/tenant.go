package request

type CreateTenant struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type CreateUniverse struct {
	Name string `json:"name" validate:"required"`
}

type CreateStorageConfig struct {
	Name     string `json:"name" validate:"required"`
	S3Bucket string `json:"s3Bucket" validate:"required"`
	S3Region string `json:"s3Region"`
}
