package viewer

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/humangl/internal/engine/animation"
	"github.com/Faultbox/humangl/internal/engine/camera"
	"github.com/Faultbox/humangl/internal/engine/components"
	"github.com/Faultbox/humangl/internal/engine/model"
	"github.com/Faultbox/humangl/internal/engine/renderer"
	"github.com/Faultbox/humangl/internal/engine/scene"
	"github.com/Faultbox/humangl/internal/logger"
	"github.com/Faultbox/humangl/pkg/math"
)

type loadedModel struct {
	model *model.Model
	gpu   *renderer.GPUModel // nil when headless
}

// LoadModel parses a glTF file and uploads it under id.
func (e *Engine) LoadModel(id, path string) (*model.Model, error) {
	if e.models.Has(id) {
		return nil, fmt.Errorf("load model %q: %w", id, ErrDuplicateModel)
	}
	m, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	entry := &loadedModel{model: m}
	if e.renderer != nil {
		if entry.gpu, err = e.renderer.Upload(m); err != nil {
			return nil, fmt.Errorf("upload model %q: %w", id, err)
		}
	}
	if err := e.models.Add(id, entry); err != nil {
		return nil, err
	}

	logger.Info("model loaded",
		zap.String("id", id),
		zap.String("path", path),
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("meshes", len(m.Meshes)),
		zap.Strings("animations", animationNames(m)),
	)
	return m, nil
}

// Model returns a loaded model.
func (e *Engine) Model(id string) (*model.Model, bool) {
	l, ok := e.models.Get(id)
	if !ok {
		return nil, false
	}
	return l.model, true
}

// ModelOptions describes how AddModelObject places a model.
type ModelOptions struct {
	Shader    string // defaults to DefaultShader
	Animation string // clip to start, empty for none
	Scale     float32
	Position  math.Vec3
	Parts     []components.Part
}

// AddModelObject adds an object showing the loaded model id to the scene.
// The object gets an Animator and, with a window, a MeshRenderer, a Picker
// and a control panel.
func (e *Engine) AddModelObject(id string, opts ModelOptions) (*scene.Object, error) {
	l, ok := e.models.Get(id)
	if !ok {
		return nil, fmt.Errorf("model %q not loaded", id)
	}

	o := scene.NewObject(id)
	o.Transform.Translation = opts.Position

	animator, err := scene.AddComponent(o, animation.NewAnimator(l.model))
	if err != nil {
		return nil, err
	}
	if opts.Animation != "" {
		if i := slices.Index(animator.AnimationNames(), opts.Animation); i >= 0 {
			_ = animator.SetAnimation(i)
		} else {
			logger.Warn("animation not found",
				zap.String("model", id),
				zap.String("animation", opts.Animation),
			)
		}
	}

	if l.gpu != nil {
		if err := e.attachRenderer(o, l.gpu, opts); err != nil {
			return nil, fmt.Errorf("model object %q: %w", id, err)
		}
	}

	e.scene.Add(o)
	return o, nil
}

func (e *Engine) attachRenderer(o *scene.Object, gpu *renderer.GPUModel, opts ModelOptions) error {
	id := opts.Shader
	if id == "" {
		id = DefaultShader
	}
	variants, ok := e.Shader(id)
	if !ok {
		return fmt.Errorf("shader %q not registered", id)
	}

	mr, err := components.NewMeshRenderer(gpu, variants)
	if err != nil {
		return err
	}
	if opts.Scale > 0 {
		mr.SetRootScale(opts.Scale)
	}
	if _, err := scene.AddComponent(o, mr); err != nil {
		return err
	}
	if _, err := scene.AddComponent(o, components.NewPicker(e.lines)); err != nil {
		return err
	}
	_, err = scene.AddComponent(o, components.NewUserInterface("",
		components.AnimationBlock{},
		components.NewPartsBlock(opts.Parts...),
		components.DisplayBlock{},
		components.CameraBlock{},
	))
	return err
}

// openModel loads a model picked in the file dialog and frames it.
func (e *Engine) openModel(path string) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id := e.models.UniqueID(base)
	if _, err := e.LoadModel(id, path); err != nil {
		logger.Error("open model failed", zap.String("path", path), zap.Error(err))
		return
	}
	o, err := e.AddModelObject(id, ModelOptions{Scale: 1})
	if err != nil {
		logger.Error("open model failed", zap.String("path", path), zap.Error(err))
		return
	}
	if ctrl, ok := scene.Lookup[*camera.Controller](e.ctx.Resources); ok {
		components.FocusCamera(ctrl, o)
	}
	if e.backend != nil {
		e.backend.SetWindowTitle(fmt.Sprintf("%s - %s", e.title, filepath.Base(path)))
	}
}

func animationNames(m *model.Model) []string {
	names := make([]string, 0, len(m.Animations()))
	for _, a := range m.Animations() {
		names = append(names, a.Name())
	}
	return names
}
