package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/engine/shader"
	"github.com/Faultbox/humangl/internal/engine/shader/preprocess"
	"github.com/Faultbox/humangl/internal/logger"
)

// shaderEntry is a registered shader and, when it came from assets, the
// names to re-read on reload. file is set for combined #shader files.
type shaderEntry struct {
	variants   *shader.Variants
	vert, frag string
	file       string
}

func (s *shaderEntry) fromAssets() bool {
	return s.file != "" || s.vert != ""
}

// AddShader registers a shader from sources. No program is compiled until
// a variant is enabled.
func (e *Engine) AddShader(id, vert, frag string) (*shader.Variants, error) {
	return e.addShader(id, &shaderEntry{variants: shader.NewVariants(id, vert, frag)})
}

// LoadShader registers a shader whose stages are read from the asset
// search path. Stages found on disk are watched for changes.
func (e *Engine) LoadShader(id, vertName, fragName string) (*shader.Variants, error) {
	entry := &shaderEntry{vert: vertName, frag: fragName}
	vert, frag, err := e.readShader(entry)
	if err != nil {
		return nil, fmt.Errorf("load shader %s: %w", id, err)
	}
	entry.variants = shader.NewVariants(id, vert, frag)
	return e.addShader(id, entry)
}

// AddShaderFile registers a shader from a combined file with
// "#shader vertex" and "#shader fragment" sections.
func (e *Engine) AddShaderFile(id, name string) (*shader.Variants, error) {
	entry := &shaderEntry{file: name}
	vert, frag, err := e.readShader(entry)
	if err != nil {
		return nil, fmt.Errorf("load shader %s: %w", id, err)
	}
	entry.variants = shader.NewVariants(id, vert, frag)
	return e.addShader(id, entry)
}

// Shader returns a registered shader.
func (e *Engine) Shader(id string) (*shader.Variants, bool) {
	s, ok := e.shaders.Get(id)
	if !ok {
		return nil, false
	}
	return s.variants, true
}

func (e *Engine) addShader(id string, entry *shaderEntry) (*shader.Variants, error) {
	if err := e.shaders.Add(id, entry); err != nil {
		return nil, fmt.Errorf("add shader: %w", err)
	}
	if entry.fromAssets() {
		e.watchShader(id, entry)
	}
	logger.Debug("shader registered", zap.String("id", id))
	return entry.variants, nil
}

func (e *Engine) readShader(s *shaderEntry) (vert, frag string, err error) {
	if s.file != "" {
		src, err := e.assets.LoadString(s.file)
		if err != nil {
			return "", "", err
		}
		return preprocess.SplitSource(src)
	}
	if vert, err = e.assets.LoadString(s.vert); err != nil {
		return "", "", err
	}
	if frag, err = e.assets.LoadString(s.frag); err != nil {
		return "", "", err
	}
	return vert, frag, nil
}

// watchShader watches the files of entry that live on disk. Embedded
// stages have nothing to watch.
func (e *Engine) watchShader(id string, s *shaderEntry) {
	if e.watcher == nil {
		return
	}
	for _, name := range []string{s.file, s.vert, s.frag} {
		if name == "" {
			continue
		}
		path, ok := e.assets.Resolve(name)
		if !ok {
			continue
		}
		if err := e.watcher.Add(path); err != nil {
			logger.Warn("cannot watch shader", zap.String("path", path), zap.Error(err))
			continue
		}
		e.watched[path] = append(e.watched[path], id)
	}
}

// reloadChangedShaders rebuilds the shaders whose files changed since the
// last frame. A shader that fails to compile keeps its old programs.
func (e *Engine) reloadChangedShaders() {
	if e.watcher == nil {
		return
	}
	for _, path := range e.watcher.Changed() {
		e.assets.Invalidate(path)
		for _, id := range e.watched[path] {
			s, ok := e.shaders.Get(id)
			if !ok {
				continue
			}
			vert, frag, err := e.readShader(s)
			if err == nil {
				err = s.variants.Reload(vert, frag)
			}
			if err != nil {
				logger.Error("shader reload failed", zap.String("id", id), zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Info("shader reloaded", zap.String("id", id), zap.String("path", path))
		}
	}
}
