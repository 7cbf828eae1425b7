// Package mirror is the secondary-host transport: it keeps the GitLab
// mirror project in existence and triggers its CI pipeline.
//
// Core pieces:
//   - GitLabClient: implements refit.MirrorClient using go-gitlab;
//     EnsureProject is idempotent (404 creates, 409 on create is success)
//     and TriggerPipeline resolves the ref (explicit pipeline ref, else the
//     feature branch) and returns the pipeline web URL
//   - SplitProjectPath: splits "namespace/name" project paths
//
// The mock counterpart lives in the root package as refit.MockMirrorClient.
package mirror
