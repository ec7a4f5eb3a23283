package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/deckmerge/internal/config"
	"github.com/danieljhkim/deckmerge/internal/opc"
	"github.com/danieljhkim/deckmerge/internal/planner"
	"github.com/danieljhkim/deckmerge/internal/pptx"
	"github.com/danieljhkim/deckmerge/internal/selection"
)

// Merge copies the selected source slides to the end of the target deck and
// writes the result to the output path.
//
// Algorithm steps:
// 1. Validate the request (paths, input files, policy, selection syntax)
// 2. Record the input digests
// 3. Open source (read-only) and target (read-write, in memory)
// 4. Build the merge plan (which source slide gets which new slide ID)
// 5. Transplant each planned slide (if not DryRun)
// 6. Default the slide size, save and validate the presentation
// 7. Check that neither input changed on disk
// 8. Commit the target's parts atomically to the output path
//
// The first fatal error aborts the whole merge. Nothing is written before
// step 8, so a failed merge leaves no output file.
func (e *Engine) Merge(ctx context.Context, req *MergeRequest) (*MergeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sourcePath, targetPath, outputPath, err := e.resolvePaths(req)
	if err != nil {
		return nil, err
	}
	if err := e.checkExists("source", sourcePath); err != nil {
		return nil, err
	}
	if err := e.checkExists("target", targetPath); err != nil {
		return nil, err
	}

	policy := req.MalformedPolicy
	if policy == "" {
		policy = e.cfg.MalformedSlides
	}
	if policy != config.PolicyRepair && policy != config.PolicyReject {
		return nil, fmt.Errorf("%w: unknown malformed slide policy %q", ErrValidation, policy)
	}

	expr, err := selection.Parse(req.Slides)
	if err != nil {
		return nil, err
	}

	sourceDigest, err := e.hasher.HashFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash source: %w", err)
	}
	targetDigest, err := e.hasher.HashFile(targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash target: %w", err)
	}

	src, srcPres, err := e.openPresentation(sourcePath, opc.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	dst, dstPres, err := e.openPresentation(targetPath, opc.ReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to open target: %w", err)
	}
	defer func() {
		_ = dst.Close()
	}()

	srcRefs, err := srcPres.SlideRefs()
	if err != nil {
		return nil, fmt.Errorf("failed to read source slides: %w", err)
	}
	dstRefs, err := dstPres.SlideRefs()
	if err != nil {
		return nil, fmt.Errorf("failed to read target slides: %w", err)
	}

	sel := expr.Resolve(len(srcRefs))
	plan, err := planner.BuildMergePlan(srcRefs, sel, pptx.HighestSlideID(dstRefs))
	if err != nil {
		return nil, fmt.Errorf("failed to build merge plan: %w", err)
	}
	for _, n := range plan.OutOfRange {
		e.logger.Warn("slide out of range", "slide", n, "source_slides", len(srcRefs))
	}
	e.logger.Debug("planned merge",
		"selection", expr.String(),
		"slides", len(plan.Operations),
		"target_max_id", pptx.HighestSlideID(dstRefs))

	result := &MergeResult{
		Plan:         plan,
		Copied:       []CopiedSlide{},
		Skipped:      plan.OutOfRange,
		OutputPath:   outputPath,
		SourceSlides: len(srcRefs),
		TargetSlides: len(dstRefs),
		OutputSlides: len(dstRefs) + len(plan.Operations),
		SourceDigest: sourceDigest,
		TargetDigest: targetDigest,
	}

	if req.DryRun {
		result.Warnings = plan.Warnings
		return result, nil
	}

	t, err := newTransplanter(e, src, srcPres, dst, dstPres, policy, plan)
	if err != nil {
		return nil, err
	}
	for _, op := range plan.Operations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		copied, err := t.transplant(op)
		if err != nil {
			return nil, fmt.Errorf("failed to copy slide %d: %w", op.SourceNumber, err)
		}
		result.Copied = append(result.Copied, copied)
	}

	result.SlideSizeDefaulted = dstPres.EnsureSlideSize(e.cfg.SlideWidth, e.cfg.SlideHeight)
	if result.SlideSizeDefaulted {
		e.logger.Debug("target has no slide size, using default", "cx", e.cfg.SlideWidth, "cy", e.cfg.SlideHeight)
		plan.AddWarning("target has no slide size; set to %dx%d EMU", e.cfg.SlideWidth, e.cfg.SlideHeight)
	}
	if err := dstPres.Save(); err != nil {
		return nil, err
	}
	if err := dstPres.Validate(); err != nil {
		return nil, err
	}

	if err := e.checkUnchanged("source", sourcePath, sourceDigest); err != nil {
		return nil, err
	}
	if err := e.checkUnchanged("target", targetPath, targetDigest); err != nil {
		return nil, err
	}

	createdDirs, err := e.ensureDir(filepath.Dir(outputPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := dst.Commit(e.fs, outputPath); err != nil {
		e.removeDirs(createdDirs)
		return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	e.logger.Debug("wrote merged deck", "path", outputPath, "slides", result.OutputSlides)

	result.Warnings = plan.Warnings
	return result, nil
}

func (e *Engine) checkExists(role, path string) error {
	exists, err := e.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("failed to check %s file: %w", role, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s file %s", ErrFileNotFound, role, path)
	}
	return nil
}

func (e *Engine) checkUnchanged(role, path, digest string) error {
	current, err := e.hasher.HashFile(path)
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", role, err)
	}
	if current != digest {
		return fmt.Errorf("%w: %s file %s", ErrInputModified, role, path)
	}
	return nil
}
