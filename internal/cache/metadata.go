package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// warpSize is the number of threads per warp on NVIDIA hardware.
const warpSize = 32

// Metadata mirrors the JSON sidecar Triton writes next to each
// compiled kernel. The field set is owned by the compiler; unknown
// fields are ignored on decode.
type Metadata struct {
	Target                   []any    `json:"target"`
	NumWarps                 uint32   `json:"num_warps"`
	NumCTAs                  uint32   `json:"num_ctas"`
	NumStages                uint32   `json:"num_stages"`
	ClusterDims              []uint32 `json:"cluster_dims"`
	PTXVersion               *uint32  `json:"ptx_version"`
	EnableWarpSpecialization bool     `json:"enable_warp_specialization"`
	EnablePersistent         bool     `json:"enable_persistent"`
	OptimizeEpilogue         bool     `json:"optimize_epilogue"`
	EnableFPFusion           bool     `json:"enable_fp_fusion"`
	AllowFP8E4NV             bool     `json:"allow_fp8e4nv"`
	MaxNumImpreciseAcc       uint32   `json:"max_num_imprecise_acc_default"`
	ExternLibs               []string `json:"extern_libs"`
	Debug                    *bool    `json:"debug"`
	AMDGCNEnableDump         bool     `json:"AMDGCN_ENABLE_DUMP"`
	DisableFastReduction     bool     `json:"DISABLE_FAST_REDUCTION"`
	DisableMMAV3             bool     `json:"DISABLE_MMA_V3"`
	EnableTMA                bool     `json:"ENABLE_TMA"`
	LLVMIREnableDump         bool     `json:"LLVM_IR_ENABLE_DUMP"`
	MLIREnableDump           bool     `json:"MLIR_ENABLE_DUMP"`
	TritonDisableLineInfo    bool     `json:"TRITON_DISABLE_LINE_INFO"`
	IDsOfFoldedArgs          []uint32 `json:"ids_of_folded_args"`
	IDsOfTensormaps          []uint32 `json:"ids_of_tensormaps"`
	SharedMem                uint32   `json:"shared"`
	// Name is the compiler-mangled symbol of the specialized kernel
	// instance, distinct from the user-facing kernel name.
	Name string `json:"name"`
}

// ReadMetadata decodes one metadata sidecar file.
func ReadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kernel metadata: %w", err)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode kernel metadata %s: %w", path, err)
	}
	return &m, nil
}

// TargetString flattens the heterogeneous target array (e.g. ["cuda", 80])
// into a single string such as "cuda80".
func (m *Metadata) TargetString() string {
	parts := make([]string, 0, len(m.Target))
	for _, v := range m.Target {
		switch t := v.(type) {
		case string:
			parts = append(parts, t)
		case float64:
			// JSON numbers decode as float64; targets carry integers.
			parts = append(parts, fmt.Sprintf("%d", int64(t)))
		default:
			parts = append(parts, fmt.Sprint(t))
		}
	}
	return strings.Join(parts, "")
}

// NumThreads is the total launch width implied by the warp count.
func (m *Metadata) NumThreads() uint32 {
	return m.NumWarps * warpSize
}
