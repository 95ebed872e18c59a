// Package assets removes the uploaded binaries and icons of apps.
//
// Every app owns exactly one asset location derived from its ID:
//
//   - local backend: <uploads_root>/apps/a<id>
//   - s3 backend: s3://<bucket>/apps/a<id>/
//
// The backend is chosen by the storage_backend configuration attribute.
// S3 static credentials are read from ZEALOT_S3_ACCESS_KEY_ID and
// ZEALOT_S3_SECRET_ACCESS_KEY; without them the default AWS credential
// chain applies. Setting s3_endpoint targets an S3-compatible server with
// path-style addressing.
package assets
