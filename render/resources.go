package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
)

//go:embed assets
var embedded embed.FS

// Assets returns the built-in asset tree: shaders/ and textures/.
func Assets() fs.FS {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Layered opens each name from the first layer that has it.
type Layered []fs.FS

func (l Layered) Open(name string) (fs.File, error) {
	for _, layer := range l {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// NotFoundError reports a missing named resource.
type NotFoundError struct {
	Kind string
	Name string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q not found: %v", e.Kind, e.Name, e.Err)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Resources owns shaders and textures by name and reads asset files.
// It must only be used on the thread owning the GL context.
type Resources struct {
	files    fs.FS
	shaders  map[string]*Shader
	textures map[string]*Texture2D
	log      *slog.Logger
}

func NewResources(files fs.FS, log *slog.Logger) *Resources {
	if log == nil {
		log = slog.Default()
	}
	return &Resources{
		files:    files,
		shaders:  make(map[string]*Shader),
		textures: make(map[string]*Texture2D),
		log:      log,
	}
}

func (r *Resources) readFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(r.files, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Kind: "file", Name: name, Err: err}
	}
	return data, err
}

// FileText returns the contents of an asset file.
func (r *Resources) FileText(name string) (string, error) {
	data, err := r.readFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadShader compiles the program from two asset files and registers it as
// name, replacing any previous shader of that name.
func (r *Resources) LoadShader(name, vertexPath, fragmentPath string) (*Shader, error) {
	vs, err := r.FileText(vertexPath)
	if err != nil {
		return nil, err
	}
	frag, err := r.FileText(fragmentPath)
	if err != nil {
		return nil, err
	}
	s, err := NewShader(vs, frag)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	if old, ok := r.shaders[name]; ok {
		old.Delete()
	}
	r.shaders[name] = s
	r.log.Debug("shader loaded", "name", name)
	return s, nil
}

func (r *Resources) Shader(name string) (*Shader, error) {
	s, ok := r.shaders[name]
	if !ok {
		return nil, &NotFoundError{Kind: "shader", Name: name}
	}
	return s, nil
}

// LoadTexture decodes an image asset and registers it as name.
func (r *Resources) LoadTexture(name, path string, opts TextureOptions) (*Texture2D, error) {
	data, err := r.readFile(path)
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", name, err)
	}
	t := NewTexture2D(FlipVertical(img), opts)
	r.AddTexture(name, t)
	r.log.Debug("texture loaded", "name", name, "path", path, "width", t.width, "height", t.height)
	return t, nil
}

func (r *Resources) AddTexture(name string, t *Texture2D) {
	if old, ok := r.textures[name]; ok && old != t {
		old.Delete()
	}
	r.textures[name] = t
}

func (r *Resources) Texture(name string) (*Texture2D, error) {
	t, ok := r.textures[name]
	if !ok {
		return nil, &NotFoundError{Kind: "texture", Name: name}
	}
	return t, nil
}

// BindTexture binds the named texture to unit 0.
func (r *Resources) BindTexture(name string) error {
	t, err := r.Texture(name)
	if err != nil {
		return err
	}
	t.Bind()
	return nil
}

// Close deletes every registered GL object.
func (r *Resources) Close() {
	for name, s := range r.shaders {
		s.Delete()
		delete(r.shaders, name)
	}
	for name, t := range r.textures {
		t.Delete()
		delete(r.textures, name)
	}
}
